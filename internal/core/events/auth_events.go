package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeSignedIn  = "auth.signed_in"
	EventTypeSignedOut = "auth.signed_out"
)

type SignedInEvent struct {
	BaseEvent
	IdentityID  string `json:"identity_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func NewSignedInEvent(identityID, email, displayName, avatarURL string) *SignedInEvent {
	return &SignedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSignedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"identity_id":  identityID,
				"email":        email,
				"display_name": displayName,
			},
		},
		IdentityID:  identityID,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
}

type SignedOutEvent struct {
	BaseEvent
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
}

func NewSignedOutEvent(identityID, email string) *SignedOutEvent {
	return &SignedOutEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSignedOut,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"identity_id": identityID,
				"email":       email,
			},
		},
		IdentityID: identityID,
		Email:      email,
	}
}
