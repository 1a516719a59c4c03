package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/service"
)

// digestQueueLimit caps how many rows per queue a digest reads.
const digestQueueLimit = 500

// QueueSource reports the moderation backlog.
type QueueSource interface {
	PendingQueues(ctx context.Context, limit int) (*service.ModerationQueues, error)
}

// NotificationWorker subscribes the notification handlers and periodically
// sends admins a digest of the moderation backlog.
type NotificationWorker struct {
	notifications *service.NotificationService
	queues        QueueSource
	interval      time.Duration
	logger        *zap.Logger
}

// NewNotificationWorker builds a worker. A zero interval disables the digest.
func NewNotificationWorker(notifications *service.NotificationService, queues QueueSource, interval time.Duration, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifications: notifications,
		queues:        queues,
		interval:      interval,
		logger:        logger,
	}
}

// Start registers event handlers and launches the digest loop, which stops
// when ctx is cancelled. The returned channel closes once the loop exits.
func (w *NotificationWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if w == nil || w.notifications == nil {
		close(done)
		return done
	}
	w.notifications.RegisterHandlers()

	if w.interval <= 0 || w.queues == nil {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.sendDigest(ctx)
			}
		}
	}()
	return done
}

func (w *NotificationWorker) sendDigest(ctx context.Context) {
	queues, err := w.queues.PendingQueues(ctx, digestQueueLimit)
	if err != nil {
		w.logger.Warn("moderation digest skipped", zap.Error(err))
		return
	}
	w.notifications.SendModerationDigest(ctx, queues.Counts())
}
