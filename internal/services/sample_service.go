package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

const (
	moduleSample = "Sample Management"

	// samples without an owner are assigned to this customer by FixNullCustomers
	fallbackSampleCustomerID uint = 1

	eventSampleSync = "sample_sync"
)

var (
	opCreateSample = audit.Operation{
		Name:        "SampleService.Create",
		Module:      moduleSample,
		Action:      models.ActionCreate,
		Description: "create sample",
	}
	opUpdateSample = audit.Operation{
		Name:         "SampleService.Update",
		Module:       moduleSample,
		Action:       models.ActionUpdate,
		Description:  "update sample",
		EntityType:   audit.EntitySample,
		IDParamIndex: 0,
	}
	opDeleteSample = audit.Operation{
		Name:         "SampleService.Delete",
		Module:       moduleSample,
		Action:       models.ActionDelete,
		Description:  "delete sample",
		EntityType:   audit.EntitySample,
		IDParamIndex: 0,
	}
	opDeleteSampleImage = audit.Operation{
		Name:         "SampleService.DeleteImage",
		Module:       moduleSample,
		Action:       models.ActionUpdate,
		Description:  "delete sample image",
		EntityType:   audit.EntitySample,
		IDParamIndex: 0,
	}
	opFixNullCustomers = audit.Operation{
		Name:        "SampleService.FixNullCustomers",
		Module:      moduleSample,
		Action:      models.ActionUpdate,
		Description: "assign samples without a customer",
	}
)

// ImageStore keeps uploaded sample images
type ImageStore interface {
	SaveSampleImage(header *multipart.FileHeader) (string, error)
	Delete(relativePath string) error
}

// Broadcaster pushes events to connected clients
type Broadcaster interface {
	Broadcast(event string, data any) int
}

// SampleInput is the editable part of a sample. Images only arrive as
// uploads; Image is consulted on update, where "" removes the stored image.
type SampleInput struct {
	CustomerID  *uint   `json:"customerId"`
	CompanyName string  `json:"companyName"`
	Alias       string  `json:"alias"`
	Model       string  `json:"model"`
	ColorCode   string  `json:"colorCode"`
	Image       *string `json:"image"`
	Stock       int     `json:"stock"`
	UnitPrice   float64 `json:"unitPrice"`
}

func (in *SampleInput) applyTo(s *models.Sample) {
	s.CustomerID = in.CustomerID
	s.CompanyName = in.CompanyName
	s.Alias = in.Alias
	s.Model = in.Model
	s.ColorCode = in.ColorCode
	s.Stock = in.Stock
	s.UnitPrice = in.UnitPrice
}

// SampleService handles the sample catalog and its image files
type SampleService struct {
	repo     repository.SampleRepository
	images   ImageStore
	recorder *audit.Recorder
	events   Broadcaster
}

func NewSampleService(repo repository.SampleRepository, images ImageStore, recorder *audit.Recorder, events Broadcaster) *SampleService {
	return &SampleService{
		repo:     repo,
		images:   images,
		recorder: recorder,
		events:   events,
	}
}

func (s *SampleService) Get(ctx context.Context, id uint) (*models.Sample, error) {
	sample, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "sample does not exist")
	}
	return sample, nil
}

func (s *SampleService) List(ctx context.Context, query *repository.ListQuery) ([]models.Sample, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *SampleService) OrderCount(ctx context.Context, id uint) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	return s.repo.CountOrders(ctx, id)
}

// Create stores the sample and, when given, its image
func (s *SampleService) Create(ctx context.Context, input *SampleInput, image *multipart.FileHeader) (*models.Sample, error) {
	return audit.Do(ctx, s.recorder, opCreateSample, []any{input, image}, func(ctx context.Context) (*models.Sample, error) {
		sample := &models.Sample{}
		input.applyTo(sample)

		if hasContent(image) {
			path, err := s.images.SaveSampleImage(image)
			if err != nil {
				return nil, NewBusinessError(400, "image upload failed: %v", err)
			}
			sample.Image = path
		}

		if err := s.repo.Create(ctx, sample); err != nil {
			s.discardImage(image, sample.Image)
			return nil, err
		}
		s.notify("create", sample.ID)
		return sample, nil
	})
}

// Update applies the input. A new upload replaces the previous file; an
// empty upload or an explicitly empty image field removes it.
func (s *SampleService) Update(ctx context.Context, id uint, input *SampleInput, image *multipart.FileHeader) (*models.Sample, error) {
	return audit.Do(ctx, s.recorder, opUpdateSample, []any{id, input, image}, func(ctx context.Context) (*models.Sample, error) {
		sample, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		oldImage := sample.Image
		input.applyTo(sample)

		var saved *multipart.FileHeader
		switch {
		case hasContent(image):
			path, err := s.images.SaveSampleImage(image)
			if err != nil {
				return nil, NewBusinessError(400, "image upload failed: %v", err)
			}
			sample.Image = path
			saved = image
		case image != nil, input.Image != nil && *input.Image == "":
			sample.Image = ""
		}

		if err := s.repo.Update(ctx, sample); err != nil {
			s.discardImage(saved, sample.Image)
			return nil, notFoundAs(err, "sample does not exist")
		}

		if oldImage != "" && oldImage != sample.Image {
			s.removeFile(oldImage)
		}
		s.notify("update", id)
		return sample, nil
	})
}

// Delete removes the sample with every order placed against it
func (s *SampleService) Delete(ctx context.Context, id uint) (*models.DeleteResult, error) {
	return audit.Do(ctx, s.recorder, opDeleteSample, []any{id}, func(ctx context.Context) (*models.DeleteResult, error) {
		sample, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		removed, err := s.repo.DeleteWithOrders(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, "sample does not exist")
		}

		desc := fmt.Sprintf("deleted sample %s and %d related orders", sample.Model, removed)
		if removed > 0 {
			s.recorder.Record(ctx, &models.OperationLog{
				Module:      moduleSample,
				Action:      models.ActionCascadeDelete,
				Description: fmt.Sprintf("cascade deleted %d orders of sample %d (%s)", removed, id, sample.Model),
				Method:      opDeleteSample.Name,
				Status:      models.AuditStatusSuccess,
			})
		}
		if sample.HasImage() {
			s.removeFile(sample.Image)
		}
		s.notify("delete", id)

		return &models.DeleteResult{DeletedID: id, AffectedCount: removed, Description: desc}, nil
	})
}

// DeleteImage removes the sample's image file and clears the field
func (s *SampleService) DeleteImage(ctx context.Context, id uint) (*models.Sample, error) {
	return audit.Do(ctx, s.recorder, opDeleteSampleImage, []any{id}, func(ctx context.Context) (*models.Sample, error) {
		sample, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !sample.HasImage() {
			return nil, NewBusinessError(400, "sample has no image")
		}
		if err := s.images.Delete(sample.Image); err != nil {
			return nil, fmt.Errorf("delete image file: %w", err)
		}
		if err := s.repo.SetImage(ctx, id, ""); err != nil {
			return nil, err
		}
		sample.Image = ""
		s.notify("update", id)
		return sample, nil
	})
}

// FixNullCustomers assigns every sample without a customer to the fallback customer
func (s *SampleService) FixNullCustomers(ctx context.Context) (int64, error) {
	return audit.Do(ctx, s.recorder, opFixNullCustomers, nil, func(ctx context.Context) (int64, error) {
		return s.repo.AssignMissingCustomer(ctx, fallbackSampleCustomerID)
	})
}

func (s *SampleService) notify(action string, id uint) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(eventSampleSync, map[string]any{"action": action, "sampleId": id})
}

// discardImage removes a file saved for an upload whose row was never written
func hasContent(upload *multipart.FileHeader) bool {
	return upload != nil && upload.Size > 0
}

func (s *SampleService) discardImage(upload *multipart.FileHeader, path string) {
	if upload != nil && path != "" {
		s.removeFile(path)
	}
}

func (s *SampleService) removeFile(path string) {
	if err := s.images.Delete(path); err != nil {
		logger.Warn("Failed to remove sample image", "path", path, "error", err)
	}
}
