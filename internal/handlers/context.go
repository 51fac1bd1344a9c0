package handlers

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// Notifier publishes an event to every connection of a user.
type Notifier interface {
	NotifyUser(userID uuid.UUID, eventType string, data interface{}) error
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(uuid.UUID, string, interface{}) error { return nil }

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
