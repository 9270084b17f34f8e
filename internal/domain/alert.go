package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind classifies an alert signal.
type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
	AlertInfo    AlertKind = "info"
)

func (k AlertKind) String() string { return string(k) }

func (k AlertKind) IsValid() bool {
	switch k {
	case AlertError, AlertSuccess, AlertInfo:
		return true
	}
	return false
}

// AlertSignal is a transient user-facing message. A new signal overwrites the
// previous one; signals are never queued.
type AlertSignal struct {
	ID       uuid.UUID `json:"id"`
	Kind     AlertKind `json:"kind"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	RaisedAt time.Time `json:"raisedAt"`
}
