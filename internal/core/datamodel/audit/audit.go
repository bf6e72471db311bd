package audit

import "time"

// AuditLog rows are best-effort: writes that fail are dropped, so the
// log is advisory, not authoritative. Actor fields are nullable because
// system-initiated actions carry no identity.
type AuditLog struct {
	ID          string    `gorm:"primaryKey;column:id" bson:"_id"`
	EquipmentID string    `gorm:"column:equipment_id;index;not null" bson:"equipment_id"`
	Action      string    `gorm:"column:action;not null" bson:"action"`
	Details     string    `gorm:"column:details" bson:"details,omitempty"`
	ActorID     *string   `gorm:"column:actor_id" bson:"actor_id,omitempty"`
	ActorEmail  *string   `gorm:"column:actor_email" bson:"actor_email,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" bson:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
