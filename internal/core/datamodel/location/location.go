package location

import "time"

type Location struct {
	ID          string    `gorm:"primaryKey;column:id" bson:"_id"`
	Name        string    `gorm:"column:name;not null" bson:"name"`
	Latitude    float64   `gorm:"column:latitude" bson:"latitude"`
	Longitude   float64   `gorm:"column:longitude" bson:"longitude"`
	Address     string    `gorm:"column:address" bson:"address,omitempty"`
	Description string    `gorm:"column:description" bson:"description,omitempty"`
	PhotoURL    string    `gorm:"column:photo_url" bson:"photo_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" bson:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}
