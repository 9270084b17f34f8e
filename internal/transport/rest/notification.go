package rest

import (
	"context"
	"net/http"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/service/notify"
)

type toastQueue interface {
	State() notify.State
	Dismiss(ctx context.Context) bool
}

type alertSlot interface {
	Current() *domain.AlertSignal
	Clear(ctx context.Context)
}

// NotificationHandler exposes the badge toast queue and the alert slot.
type NotificationHandler struct {
	queue  toastQueue
	alerts alertSlot
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(queue toastQueue, alerts alertSlot) *NotificationHandler {
	return &NotificationHandler{queue: queue, alerts: alerts}
}

type alertResponse struct {
	Alert *domain.AlertSignal `json:"alert"`
}

// Toast handles GET /v1/notification.
func (h *NotificationHandler) Toast(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.queue.State())
}

// Dismiss handles POST /v1/notification/dismiss.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	dismissed := h.queue.Dismiss(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"dismissed": dismissed})
}

// Alert handles GET /v1/alert.
func (h *NotificationHandler) Alert(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, alertResponse{Alert: h.alerts.Current()})
}

// ClearAlert handles DELETE /v1/alert.
func (h *NotificationHandler) ClearAlert(w http.ResponseWriter, r *http.Request) {
	h.alerts.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
