package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minsu-lee/agenda-api/internal/http/handler"
	"github.com/minsu-lee/agenda-api/internal/notify"
)

func TestNotificationHandler(t *testing.T) {
	notifier := notify.NewNotifier(notify.DefaultDismissAfter)
	notifier.SetAfterFunc(func(d time.Duration, f func()) {})
	h := handler.NewNotificationHandler(notifier)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notification", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("no notification: expected 204, got %d", w.Code)
	}

	notifier.Notify("AGENDA ADDED", notify.KindSuccess)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notification", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var n notify.Notification
	if err := json.NewDecoder(w.Body).Decode(&n); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if n.Message != "AGENDA ADDED" || n.Kind != notify.KindSuccess {
		t.Errorf("unexpected notification: %+v", n)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/notification", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: expected 405, got %d", w.Code)
	}
}
