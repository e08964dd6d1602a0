package services

import (
	"context"
	"strings"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
)

const moduleUser = "User Management"

var (
	opCreateUser = audit.Operation{
		Name:        "UserService.Create",
		Module:      moduleUser,
		Action:      models.ActionCreate,
		Description: "create user",
	}
	opUpdateUser = audit.Operation{
		Name:         "UserService.Update",
		Module:       moduleUser,
		Action:       models.ActionUpdate,
		Description:  "update user",
		EntityType:   audit.EntityUser,
		IDParamIndex: 0,
	}
	opDeleteUser = audit.Operation{
		Name:         "UserService.Delete",
		Module:       moduleUser,
		Action:       models.ActionDelete,
		Description:  "delete user",
		EntityType:   audit.EntityUser,
		IDParamIndex: 0,
	}
)

// UserInput carries account fields. An empty Password on update keeps the current one.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// redacted is the copy handed to the audit trail
func (in UserInput) redacted() UserInput {
	if in.Password != "" {
		in.Password = "******"
	}
	return in
}

// UserService handles user-related business logic
type UserService struct {
	repo     repository.UserRepository
	recorder *audit.Recorder
}

func NewUserService(repo repository.UserRepository, recorder *audit.Recorder) *UserService {
	return &UserService{
		repo:     repo,
		recorder: recorder,
	}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "user does not exist")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	return audit.Do(ctx, s.recorder, opCreateUser, []any{input.redacted()}, func(ctx context.Context) (*models.User, error) {
		username := strings.TrimSpace(input.Username)
		if username == "" || input.Password == "" {
			return nil, NewBusinessError(400, "username and password are required")
		}
		hashed, err := HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user := &models.User{
			Username: username,
			Password: hashed,
			Name:     input.Name,
			Phone:    input.Phone,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, duplicateAs(err, "username "+username)
		}
		return user, nil
	})
}

func (s *UserService) Update(ctx context.Context, id uint, input UserInput) (*models.User, error) {
	return audit.Do(ctx, s.recorder, opUpdateUser, []any{id, input.redacted()}, func(ctx context.Context) (*models.User, error) {
		user, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if username := strings.TrimSpace(input.Username); username != "" {
			user.Username = username
		}
		user.Name = input.Name
		user.Phone = input.Phone
		if input.Password != "" {
			hashed, err := HashPassword(input.Password)
			if err != nil {
				return nil, err
			}
			user.Password = hashed
		}
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, duplicateAs(err, "username "+user.Username)
		}
		return user, nil
	})
}

func (s *UserService) Delete(ctx context.Context, id uint) (uint, error) {
	return audit.Do(ctx, s.recorder, opDeleteUser, []any{id}, func(ctx context.Context) (uint, error) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return 0, notFoundAs(err, "user does not exist")
		}
		return id, nil
	})
}
