package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"path"
	"strings"

	"event-manager-api/core/constants"
	"event-manager-api/core/errors"
	"event-manager-api/core/logger"
	"event-manager-api/core/storage"
	"event-manager-api/core/utils"
	"event-manager-api/modules/user/dto"
	"event-manager-api/modules/user/entity"
	"event-manager-api/modules/user/mapper"
	"event-manager-api/modules/user/repository"

	"github.com/google/uuid"
)

type UserServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*entity.User, *errors.AppError)
	VerifyCredential(ctx context.Context, email, password string) (*entity.User, *errors.AppError)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	ListOtherUsers(ctx context.Context, userID uuid.UUID) ([]dto.UserResponse, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError)
	UploadProfilePicture(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*dto.UserResponse, *errors.AppError)
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

type UserService struct {
	repo     repository.UserRepositoryInterface
	hasher   *utils.PasswordHasher
	uploader storage.Uploader
}

// NewUserService wires the identity store. uploader may be nil when object
// storage is not configured.
func NewUserService(repo repository.UserRepositoryInterface, hasher *utils.PasswordHasher, uploader storage.Uploader) *UserService {
	return &UserService{repo: repo, hasher: hasher, uploader: uploader}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.User, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	email = NormalizeEmail(email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Error("UserService:Register:GetByEmail", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hashed, err := s.hasher.HashPassword(password)
	if err != nil {
		logger.Error("UserService:Register:HashPassword", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	created, err := s.repo.Create(ctx, &entity.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hashed,
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrEmailTaken) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create user", err)
	}

	logger.Info("UserService:Register:Created", "user_id", created.ID.String())
	return created, nil
}

// VerifyCredential returns the same error for an unknown email and a wrong password.
func (s *UserService) VerifyCredential(ctx context.Context, email, password string) (*entity.User, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		logger.Error("UserService:VerifyCredential:GetByEmail", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || !s.hasher.ComparePassword(user.Password, password) {
		return nil, errors.NewAppError(errors.ErrInvalidCredentials, "invalid credentials", nil)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return mapper.ToUserResponse(user), nil
}

func (s *UserService) ListOtherUsers(ctx context.Context, userID uuid.UUID) ([]dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	users, err := s.repo.ListExcept(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list users", err)
	}
	return mapper.ToUserResponses(users), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "name cannot be empty", nil)
		}
		user.Name = name
	}
	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email != user.Email {
			other, err := s.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrGetFailed, "failed to check email", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already in use", nil)
			}
		}
		user.Email = email
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*req.ProfilePicture)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrEmailTaken) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already in use", nil)
		}
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update profile", err)
	}

	return mapper.ToUserResponse(user), nil
}

func (s *UserService) PictureUploadEnabled() bool {
	return s.uploader != nil
}

func (s *UserService) UploadProfilePicture(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*dto.UserResponse, *errors.AppError) {
	if s.uploader == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "profile picture upload is not configured", nil)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "file must be an image", nil)
	}

	key := fmt.Sprintf("users/%s/%s%s", userID, utils.GenerateID(), strings.ToLower(path.Ext(filename)))
	url, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		logger.Error("UserService:UploadProfilePicture:Upload", "error", err, "user_id", userID.String())
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to upload picture", err)
	}

	return s.UpdateProfile(ctx, userID, &dto.UpdateProfileRequest{ProfilePicture: &url})
}
