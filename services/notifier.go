package services

import (
	"context"
	"sync"
	"time"

	"hotel-pms/models"

	"go.uber.org/zap"
)

// Notifier surfaces user-facing confirmations and failures. Calls are
// fire-and-forget: implementations log their own problems and never block the
// caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, kind models.NotificationKind, message string)
}

type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, kind models.NotificationKind, message string) {
	n.log.Info("notification", zap.String("kind", string(kind)), zap.String("message", message))
}

// MultiNotifier fans a notification out to every sink.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, kind models.NotificationKind, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, kind, message)
		}
	}
}

// RecordingNotifier keeps notifications in memory. Used by tests and handy
// for local debugging.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []models.Notification
}

func (r *RecordingNotifier) Notify(_ context.Context, kind models.NotificationKind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, models.Notification{Kind: kind, Message: message, At: time.Now().UTC()})
}

func (r *RecordingNotifier) All() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *RecordingNotifier) Last() (models.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return models.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
