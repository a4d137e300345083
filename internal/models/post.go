package models

import (
	"time"
)

// ModerationStatus is the lifecycle state of a post or comment.
// pending is the only initial state; approved and rejected are terminal
// for the status axis. The report flag is tracked separately.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// Post represents a rental listing.
type Post struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Price       int    `gorm:"not null" json:"price"`
	RoomNum     int    `gorm:"not null" json:"room_num"`
	Area        int    `gorm:"not null" json:"area"`
	Type        string `gorm:"not null" json:"type"`

	Deposit        string `gorm:"not null" json:"deposit"`
	ElectricityFee int    `gorm:"not null" json:"electricity_fee"`
	WaterFee       int    `gorm:"not null" json:"water_fee"`
	InternetFee    int    `gorm:"not null" json:"internet_fee"`
	VehicleFee     int    `gorm:"not null" json:"vehicle_fee"`
	FloorNum       string `json:"floor_num"`

	Province        string `gorm:"not null;index" json:"province"`
	District        string `gorm:"not null" json:"district"`
	Rural           string `gorm:"not null" json:"rural"`
	Street          string `gorm:"not null" json:"street"`
	DetailedAddress string `gorm:"not null" json:"detailed_address"`

	// AvgRating is the mean over every comment row attached to this post,
	// regardless of comment moderation status. Nil when no comments exist.
	AvgRating *float64         `json:"avg_rating"`
	Views     int              `gorm:"default:0" json:"views"`
	Status    ModerationStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	IsReport  bool             `gorm:"default:false;index" json:"is_report"`

	CreatedAt time.Time `json:"post_date"`
	UpdatedAt time.Time `json:"-"`

	Images     []Image     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Comments   []Comment   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Amenity    *Amenity    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"amenity,omitempty"`
	Favourites []Favourite `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	History    []History   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// Visible reports whether the post may appear in public listing and
// search results.
func (p *Post) Visible() bool {
	return p.Status == StatusApproved && !p.IsReport
}
