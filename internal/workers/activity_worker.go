package workers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/queue"
)

// EventSource is satisfied by queue.KafkaConsumer.
type EventSource interface {
	Subscribe(ctx context.Context, handler func(context.Context, queue.Event) error) error
}

// StatsCounter is satisfied by services.StatsService.
type StatsCounter interface {
	Increment(ctx context.Context, activityType models.ActivityType) error
}

// ActivityWorker 消费动态事件，按类型累加 Redis 统计
type ActivityWorker struct {
	consumer EventSource
	stats    StatsCounter
	logger   *logger.Logger
}

func NewActivityWorker(consumer EventSource, stats StatsCounter, logger *logger.Logger) *ActivityWorker {
	return &ActivityWorker{
		consumer: consumer,
		stats:    stats,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled or the consumer fails.
func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker...")
	return w.consumer.Subscribe(ctx, w.HandleEvent)
}

func (w *ActivityWorker) HandleEvent(ctx context.Context, event queue.Event) error {
	switch event.Type {
	case queue.EventActivityRecorded:
		return w.handleActivityRecorded(ctx, event)
	default:
		w.logger.WithField("event_type", event.Type).Warn("Unknown event type")
		return nil
	}
}

func (w *ActivityWorker) handleActivityRecorded(ctx context.Context, event queue.Event) error {
	var data queue.ActivityEventData
	if err := event.Decode(&data); err != nil {
		return fmt.Errorf("invalid activity event data: %w", err)
	}

	activityType := models.ActivityType(data.ActivityType)
	if !activityType.Known() {
		w.logger.WithField("activity_type", data.ActivityType).Warn("Skipping unknown activity type")
		return nil
	}

	if err := w.stats.Increment(ctx, activityType); err != nil {
		return err
	}

	w.logger.WithFields(logrus.Fields{
		"activity_id":   data.ActivityID,
		"activity_type": data.ActivityType,
		"actor_id":      data.ActorID,
	}).Debug("Activity counted")
	return nil
}
