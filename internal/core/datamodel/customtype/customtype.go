package customtype

import "time"

type CustomType struct {
	ID        string    `gorm:"primaryKey;column:id" bson:"_id"`
	Name      string    `gorm:"column:name;uniqueIndex;not null" bson:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
}

func (CustomType) TableName() string {
	return "custom_types"
}
