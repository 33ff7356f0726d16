package dto

import (
	userDto "event-manager-api/modules/user/dto"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string                `json:"token"`
	ExpiresIn int64                 `json:"expires_in"`
	User      *userDto.UserResponse `json:"user"`
}
