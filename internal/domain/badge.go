package domain

import "github.com/google/uuid"

// Badge is an unlockable achievement.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// BadgeToastEvent announces a freshly unlocked badge. It lives only in the
// notification queue; InstanceID is stamped by the queue on every push.
type BadgeToastEvent struct {
	InstanceID  uuid.UUID `json:"instanceId"`
	BadgeID     string    `json:"badgeId"`
	DisplayName string    `json:"displayName"`
	Emoji       string    `json:"emoji"`
}

// ToastFor builds the toast event for b.
func ToastFor(b Badge) BadgeToastEvent {
	return BadgeToastEvent{
		BadgeID:     b.ID,
		DisplayName: b.Name,
		Emoji:       b.Emoji,
	}
}
