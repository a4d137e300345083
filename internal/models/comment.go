package models

import (
	"time"
)

// Comment is a rating with optional text left by a user on a post.
// A user may comment at most once per post.
type Comment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_comments_post_user" json:"post_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_comments_post_user" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	Rating  float64 `gorm:"not null" json:"rating"`
	Comment string  `json:"comment"`

	Status   ModerationStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	IsReport bool             `gorm:"default:false;index" json:"is_report"`

	CreatedAt time.Time `json:"comment_date"`
	UpdatedAt time.Time `json:"-"`
}

// Visible reports whether the comment may appear under a public post view.
func (c *Comment) Visible() bool {
	return c.Status == StatusApproved && !c.IsReport
}
