package dto

import "github.com/streamhive/streamhive-backend/models"

// RegisterUserDTO comes in as multipart form fields next to the optional
// avatar / coverImage files. Presence is checked in the handler so the
// error shape matches the login flow.
type RegisterUserDTO struct {
	Username string `form:"username" json:"username"`
	FullName string `form:"fullName" json:"fullName"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UpdateAccountDTO carries optional account fields. Nil means unchanged.
type UpdateAccountDTO struct {
	FullName           *string                      `json:"fullName,omitempty"`
	Email              *string                      `json:"email,omitempty"`
	ChannelDescription *string                      `json:"channelDescription,omitempty"`
	ChannelTags        *[]string                    `json:"channelTags,omitempty"`
	SocialLinks        *models.SocialLinks          `json:"socialLinks,omitempty"`
	Notifications      *models.NotificationSettings `json:"notificationSettings,omitempty"`
}

type RequestPasswordResetDTO struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordDTO struct {
	Email       string `json:"email" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
