package equipment

import "time"

type Equipment struct {
	ID              string     `gorm:"primaryKey;column:id" bson:"_id"`
	LocationID      string     `gorm:"column:location_id;index;not null" bson:"location_id"`
	InventoryNumber string     `gorm:"column:inventory_number" bson:"inventory_number,omitempty"`
	Type            string     `gorm:"column:type" bson:"type,omitempty"`
	Status          string     `gorm:"column:status" bson:"status,omitempty"`
	SubLocation     string     `gorm:"column:sub_location" bson:"sub_location,omitempty"`
	Manufacturer    string     `gorm:"column:manufacturer" bson:"manufacturer,omitempty"`
	Model           string     `gorm:"column:model" bson:"model,omitempty"`
	SerialNumber    string     `gorm:"column:serial_number" bson:"serial_number,omitempty"`
	IPAddress       string     `gorm:"column:ip_address" bson:"ip_address,omitempty"`
	MACAddress      string     `gorm:"column:mac_address" bson:"mac_address,omitempty"`
	PosX            int        `gorm:"column:pos_x" bson:"pos_x"`
	PosY            int        `gorm:"column:pos_y" bson:"pos_y"`
	PosZ            int        `gorm:"column:pos_z" bson:"pos_z"`
	InstallDate     *time.Time `gorm:"column:install_date;type:date" bson:"install_date,omitempty"`
	WarrantyUntil   *time.Time `gorm:"column:warranty_until;type:date" bson:"warranty_until,omitempty"`
	InstalledBy     string     `gorm:"column:installed_by" bson:"installed_by,omitempty"`
	TestedBy        string     `gorm:"column:tested_by" bson:"tested_by,omitempty"`
	PhotoURL        string     `gorm:"column:photo_url" bson:"photo_url,omitempty"`
	Notes           string     `gorm:"column:notes" bson:"notes,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" bson:"updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}
