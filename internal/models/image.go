package models

// Image is a stored photo belonging to a post. The URL points at the
// blob store; the backend never interprets image bytes.
type Image struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	ImageURL string `gorm:"not null" json:"image_url"`
}
