// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account on the rental marketplace.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Email         string     `gorm:"unique;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	FullName      string     `json:"full_name"`
	ContactNumber string     `json:"contact_number"`
	Address       string     `json:"address"`
	Gender        string     `json:"gender"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	AvatarURL     string     `json:"avatar_url"`
	IsAdmin       bool       `gorm:"default:false" json:"is_admin"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Posts      []Post      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
	Comments   []Comment   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Favourites []Favourite `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"favourites,omitempty"`
	History    []History   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
}

// Actor is the identity claim attached to an authenticated request.
// It is resolved once at the HTTP boundary and passed explicitly to
// every admin-gated operation.
type Actor struct {
	ID      uint
	IsAdmin bool
}
