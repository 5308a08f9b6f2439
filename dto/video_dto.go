package dto

// PublishVideoDTO is parsed from the multipart form sent alongside the
// videoFile and thumbnail files.
type PublishVideoDTO struct {
	Title       string   `form:"title" binding:"required,min=3"`
	Description string   `form:"description" binding:"required"`
	Duration    float64  `form:"duration" binding:"required,gt=0"`
	Category    string   `form:"category" binding:"required"`
	Tags        []string `form:"tags"`
	IsPublished *bool    `form:"isPublished"`
}

// UpdateVideoDTO carries optional video fields. Nil means unchanged.
type UpdateVideoDTO struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPublished *bool     `json:"isPublished,omitempty"`
}
