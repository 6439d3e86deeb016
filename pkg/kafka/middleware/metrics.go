package kafkamiddleware

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/maro14/fauxdoorz/pkg/kafka"
)

// Metrics counts publish and consume outcomes.
type Metrics struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	PublishDurationTotal    int64 // nanoseconds

	MessagesConsumed       int64
	MessagesConsumedFailed int64
	ConsumeDurationTotal   int64 // nanoseconds
}

var globalMetrics = &Metrics{}

func GetMetrics() *Metrics {
	return globalMetrics
}

func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.MessagesPublished, 0)
	atomic.StoreInt64(&m.MessagesPublishedFailed, 0)
	atomic.StoreInt64(&m.PublishDurationTotal, 0)
	atomic.StoreInt64(&m.MessagesConsumed, 0)
	atomic.StoreInt64(&m.MessagesConsumedFailed, 0)
	atomic.StoreInt64(&m.ConsumeDurationTotal, 0)
}

func (m *Metrics) AvgPublishDuration() time.Duration {
	published := atomic.LoadInt64(&m.MessagesPublished)
	if published == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&m.PublishDurationTotal) / published)
}

func (m *Metrics) AvgConsumeDuration() time.Duration {
	consumed := atomic.LoadInt64(&m.MessagesConsumed)
	if consumed == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&m.ConsumeDurationTotal) / consumed)
}

// MetricsProducerMiddleware tracks publish counts and latency.
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		atomic.AddInt64(&globalMetrics.PublishDurationTotal, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&globalMetrics.MessagesPublishedFailed, 1)
		} else {
			atomic.AddInt64(&globalMetrics.MessagesPublished, 1)
		}

		return err
	}
}

// MetricsConsumerMiddleware tracks consume counts and latency.
func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		atomic.AddInt64(&globalMetrics.ConsumeDurationTotal, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&globalMetrics.MessagesConsumedFailed, 1)
		} else {
			atomic.AddInt64(&globalMetrics.MessagesConsumed, 1)
		}

		return err
	}
}
