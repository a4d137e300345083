package models

// Amenity holds the fixed set of facility flags for a post. At most one
// record exists per post; updates replace the whole flag set.
type Amenity struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;uniqueIndex" json:"post_id"`

	Wifi            bool `gorm:"default:false" json:"wifi"`
	AirConditioner  bool `gorm:"default:false" json:"air_conditioner"`
	Fridge          bool `gorm:"default:false" json:"fridge"`
	WashingMachine  bool `gorm:"default:false" json:"washing_machine"`
	ParkingLot      bool `gorm:"default:false" json:"parking_lot"`
	Security        bool `gorm:"default:false" json:"security"`
	Kitchen         bool `gorm:"default:false" json:"kitchen"`
	PrivateBathroom bool `gorm:"default:false" json:"private_bathroom"`
	Furniture       bool `gorm:"default:false" json:"furniture"`
	Balcony         bool `gorm:"default:false" json:"balcony"`
	Elevator        bool `gorm:"default:false" json:"elevator"`
	PetAllowed      bool `gorm:"default:false" json:"pet_allowed"`
}
