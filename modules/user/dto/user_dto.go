package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email" validate:"omitempty,email,max=254"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=2048"`
}
