package httpdto

import (
	"time"

	"unimarket/internal/domain/user"
)

// RegisterRequest is used for POST /auth/register
type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	DisplayName  string `json:"display_name" binding:"required"`
	UniversityID string `json:"university_id,omitempty"`
}

// LoginRequest is used for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	UniversityID string `json:"university_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// UniversityDTO represents a university in API responses
type UniversityDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	City   string `json:"city,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// FromUser converts a domain user to UserDTO
func FromUser(u user.User) UserDTO {
	dto := UserDTO{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
	if u.AvatarURL != nil {
		dto.AvatarURL = *u.AvatarURL
	}
	if u.UniversityID != nil {
		dto.UniversityID = u.UniversityID.String()
	}
	return dto
}

// FromUniversity converts a domain university to UniversityDTO
func FromUniversity(u user.University) UniversityDTO {
	return UniversityDTO{
		ID:     u.ID.String(),
		Name:   u.Name,
		City:   u.City,
		Domain: u.Domain,
	}
}

// FromUniversitySlice converts a slice of domain universities to UniversityDTO slice
func FromUniversitySlice(universities []user.University) []UniversityDTO {
	dtos := make([]UniversityDTO, len(universities))
	for i, u := range universities {
		dtos[i] = FromUniversity(u)
	}
	return dtos
}
