package handler

import (
	"net/http"

	"github.com/minsu-lee/agenda-api/internal/notify"
)

// NotificationHandler exposes the current toast notification, if one is
// visible. Clients poll it to render the overlay.
type NotificationHandler struct {
	notifier *notify.Notifier
}

func NewNotificationHandler(notifier *notify.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	n, ok := h.notifier.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	WriteJSON(w, http.StatusOK, n)
}
