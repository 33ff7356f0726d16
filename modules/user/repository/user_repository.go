package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"event-manager-api/core/database"
	"event-manager-api/core/logger"
	"event-manager-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrEmailTaken = stderrors.New("email already registered")

const uniqueViolation = "23505"

type UserRepository struct {
	DB database.Database
}

func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{DB: db}
}

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListExcept(ctx context.Context, id uuid.UUID) ([]entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

const userColumns = `id, name, email, password, profile_picture, created_at, updated_at`

// GetByID returns nil, nil when no user has the id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", err)
		return nil, err
	}
	return &user, nil
}

// GetByEmail expects an already normalised address and returns nil, nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("UserRepository:GetByEmail", err)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListExcept(ctx context.Context, id uuid.UUID) ([]entity.User, error) {
	users := []entity.User{}
	err := r.DB.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY name, email`, id)
	if err != nil {
		logger.Error("UserRepository:ListExcept", err)
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, email, password, profile_picture)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query, user.Name, user.Email, user.Password, user.ProfilePicture)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		logger.Error("UserRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, profile_picture = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.DB.GetContext(ctx, &user.UpdatedAt, query, user.ID, user.Name, user.Email, user.ProfilePicture)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		logger.Error("UserRepository:Update", err)
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
