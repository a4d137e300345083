package models

import (
	"time"
)

// Favourite is a user's bookmark of a post. The (user, post) pair is the
// identity; adding an existing favourite is a no-op success.
type Favourite struct {
	UserID  uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID  uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// History records that a user viewed a post. One row per (user, post)
// pair; repeat views only refresh the timestamp.
type History struct {
	UserID   uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID   uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	ViewedAt time.Time `gorm:"autoCreateTime" json:"viewed_at"`
}
