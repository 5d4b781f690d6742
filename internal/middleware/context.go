package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

func SetOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

func GetOwnerID(r *http.Request) string {
	v, _ := r.Context().Value(ownerIDKey).(string)
	return v
}
