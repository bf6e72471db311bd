package maintenance

import "time"

// MaintenanceRecord is append-only; there is no update or delete path.
type MaintenanceRecord struct {
	ID          string     `gorm:"primaryKey;column:id" bson:"_id"`
	EquipmentID string     `gorm:"column:equipment_id;index;not null" bson:"equipment_id"`
	Type        string     `gorm:"column:type" bson:"type,omitempty"`
	Date        time.Time  `gorm:"column:date;type:date" bson:"date"`
	Description string     `gorm:"column:description" bson:"description,omitempty"`
	PerformedBy string     `gorm:"column:performed_by" bson:"performed_by,omitempty"`
	Cost        float64    `gorm:"column:cost" bson:"cost"`
	NextDue     *time.Time `gorm:"column:next_due;type:date" bson:"next_due,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
}

func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}
