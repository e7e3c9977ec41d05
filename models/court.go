package models

// Court is the bookable resource. Peak pricing applies to the fixed
// 17:00–22:00 window; PricePerHour is the fallback when a peak or
// off-peak rate is not set.
type Court struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name           string  `gorm:"not null" json:"name"`
	Slug           string  `gorm:"uniqueIndex" json:"slug"`
	Location       string  `json:"location"`
	PricePerHour   float64 `gorm:"default:0" json:"price_per_hour"`
	PeakPrice      float64 `gorm:"default:0" json:"peak_price"`
	OffPeakPrice   float64 `gorm:"default:0" json:"off_peak_price"`
	AvailableSlots int     `gorm:"default:0" json:"available_slots"`
	ContactNumber  string  `json:"contact_number"`
	ImageURL       string  `json:"image_url"`

	Timestamps
}
