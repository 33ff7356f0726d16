package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"event-manager-api/core/errors"
	"event-manager-api/core/utils"
	"event-manager-api/modules/user/dto"
	"event-manager-api/modules/user/entity"
	"event-manager-api/modules/user/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]entity.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListExcept(_ context.Context, id uuid.UUID) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrEmailTaken
		}
	}
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.users[created.ID] = created
	return &created, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email && u.ID != user.ID {
			return repository.ErrEmailTaken
		}
	}
	r.users[user.ID] = *user
	return nil
}

type fakeUploader struct {
	key  string
	err  error
	body []byte
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, body []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key, u.body = key, body
	return "https://cdn.example.com/" + key, nil
}

func newTestService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, utils.NewPasswordHasher(bcrypt.MinCost), nil), repo
}

func TestRegisterNormalisesAndHashes(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), " Ann ", " Ann@Example.COM ", "secret123")
	require.Nil(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann", user.Name)

	stored := repo.users[user.ID]
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@example.com", "secret123")
	require.Nil(t, err)

	_, err = svc.Register(ctx, "Ann Again", "ANN@example.com", "other-pass")
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrAlreadyExists, err.Code)
}

func TestVerifyCredential(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, appErr := svc.Register(ctx, "Ann", "ann@example.com", "secret123")
	require.Nil(t, appErr)

	user, appErr := svc.VerifyCredential(ctx, "ANN@example.com", "secret123")
	require.Nil(t, appErr)
	assert.Equal(t, registered.ID, user.ID)

	_, appErr = svc.VerifyCredential(ctx, "ann@example.com", "wrong")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidCredentials, appErr.Code)

	_, appErr = svc.VerifyCredential(ctx, "nobody@example.com", "secret123")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidCredentials, appErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ann, _ := svc.Register(ctx, "Ann", "ann@example.com", "secret123")
	_, _ = svc.Register(ctx, "Bob", "bob@example.com", "secret123")

	name := "Ann Lee"
	updated, err := svc.UpdateProfile(ctx, ann.ID, &dto.UpdateProfileRequest{Name: &name})
	require.Nil(t, err)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)

	taken := "BOB@example.com"
	_, err = svc.UpdateProfile(ctx, ann.ID, &dto.UpdateProfileRequest{Email: &taken})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrAlreadyExists, err.Code)

	same := "ann@example.com"
	_, err = svc.UpdateProfile(ctx, ann.ID, &dto.UpdateProfileRequest{Email: &same})
	assert.Nil(t, err)

	blank := "  "
	_, err = svc.UpdateProfile(ctx, ann.ID, &dto.UpdateProfileRequest{Name: &blank})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrInvalidInput, err.Code)
}

func TestGetProfileAndList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, uuid.New())
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrNotFound, err.Code)

	ann, _ := svc.Register(ctx, "Ann", "ann@example.com", "secret123")
	bob, _ := svc.Register(ctx, "Bob", "bob@example.com", "secret123")

	others, err := svc.ListOtherUsers(ctx, ann.ID)
	require.Nil(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, bob.ID, others[0].ID)
}

func TestUploadProfilePicture(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{}
	svc := NewUserService(repo, utils.NewPasswordHasher(bcrypt.MinCost), uploader)
	ctx := context.Background()

	ann, _ := svc.Register(ctx, "Ann", "ann@example.com", "secret123")

	profile, err := svc.UploadProfilePicture(ctx, ann.ID, "Me.PNG", "image/png", []byte("png"))
	require.Nil(t, err)
	assert.Contains(t, uploader.key, "users/"+ann.ID.String()+"/")
	assert.Contains(t, uploader.key, ".png")
	assert.Equal(t, "https://cdn.example.com/"+uploader.key, profile.ProfilePicture)

	_, err = svc.UploadProfilePicture(ctx, ann.ID, "notes.txt", "text/plain", []byte("hi"))
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrInvalidInput, err.Code)

	uploader.err = stderrors.New("s3 down")
	_, err = svc.UploadProfilePicture(ctx, ann.ID, "me.png", "image/png", []byte("png"))
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrInternalServer, err.Code)
}

func TestUploadProfilePictureDisabled(t *testing.T) {
	svc, _ := newTestService()
	assert.False(t, svc.PictureUploadEnabled())

	_, err := svc.UploadProfilePicture(context.Background(), uuid.New(), "me.png", "image/png", nil)
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrNotFound, err.Code)
}
