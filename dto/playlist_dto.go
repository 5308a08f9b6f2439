package dto

type CreatePlaylistDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic"`
}

type ToggleLikeDTO struct {
	Video   string `json:"video"`
	Comment string `json:"comment"`
}
