package models

import "time"

// TryOnRecord ties one generation attempt to its owner and the stored
// image files. Paths are relative to the uploads root, forward slashes.
type TryOnRecord struct {
	ID         int64
	UserID     int64
	InputPath  string
	ClothPath  string
	OutputPath string
	CreatedAt  time.Time
}

type GalleryEntry struct {
	Username       string    `json:"username"`
	PersonImageURL string    `json:"person_image_url"`
	ClothImageURL  string    `json:"cloth_image_path"`
	OutputImageURL string    `json:"output_image_path"`
	CreatedAt      time.Time `json:"createdat"`
}
