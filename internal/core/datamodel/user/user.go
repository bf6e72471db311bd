package user

import "time"

// Identity is a record owned by the identity provider. Sessions are
// derived from it; the application never mutates identities outside of
// seeding.
type Identity struct {
	ID           string    `gorm:"primaryKey;column:id" bson:"_id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" bson:"email"`
	DisplayName  string    `gorm:"column:display_name" bson:"display_name,omitempty"`
	AvatarURL    string    `gorm:"column:avatar_url" bson:"avatar_url,omitempty"`
	PasswordHash string    `gorm:"column:password_hash;not null" bson:"password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
}

func (Identity) TableName() string {
	return "identities"
}

// AllowedUser is one allow-list row: an email mapped to exactly one role.
type AllowedUser struct {
	ID          string    `gorm:"primaryKey;column:id" bson:"_id"`
	Email       string    `gorm:"column:email;uniqueIndex;not null" bson:"email"`
	Role        string    `gorm:"column:role;not null" bson:"role"`
	DisplayName string    `gorm:"column:display_name" bson:"display_name,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
	CreatedBy   *string   `gorm:"column:created_by" bson:"created_by,omitempty"`
}

func (AllowedUser) TableName() string {
	return "allowed_users"
}
