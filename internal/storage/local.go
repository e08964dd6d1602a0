package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SampleImageDir is the sub directory (and URL prefix) holding sample images
const SampleImageDir = "sampleImage"

var (
	ErrUnsupportedImage = errors.New("unsupported image type (jpg, png, gif or webp only)")
	ErrFileTooLarge     = errors.New("file exceeds the 10 MB limit")
	ErrInvalidPath      = errors.New("path escapes the storage root")
)

// LocalStorage handles file storage on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// BasePath returns the storage root
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// SaveSampleImage validates and stores an uploaded sample image, returning its relative path
func (s *LocalStorage) SaveSampleImage(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxFileSize() {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !validImageExtensions[ext] {
		return "", ErrUnsupportedImage
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	return s.Upload(file, ext, SampleImageDir)
}

// Upload saves the stream under subDir with a generated name and returns the relative path
func (s *LocalStorage) Upload(file io.Reader, ext, subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filename := generateID() + ext
	filePath := filepath.Join(dir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		// Clean up on failure
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	// Stored paths always use forward slashes so they double as URL paths
	return path.Join(subDir, filename), nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalStorage) Delete(relativePath string) error {
	full, err := s.FullPath(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", relativePath, err)
	}
	return nil
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	full, err := s.FullPath(relativePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// FullPath resolves a stored path against the root, rejecting paths that climb out of it
func (s *LocalStorage) FullPath(relativePath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(relativePath, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.basePath, clean), nil
}

// generateID creates a unique identifier for filenames
func generateID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

var validImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MaxFileSize returns the maximum allowed file size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024 // 10 MB
}
