package bus

import (
	"time"

	"github.com/zeusync/helium/internal/core/observability/log"
)

// LogObserver writes every delivery to a logger at debug level, and failed
// deliveries at warn.
type LogObserver struct {
	Logger log.Log
}

func (o LogObserver) OnPublish(Event) {}

func (o LogObserver) OnDelivered(event Event, handlers int, err error, took time.Duration) {
	fields := []log.Field{
		log.String("event", event.Type()),
		log.Tick(event.Tick()),
		log.Int("handlers", handlers),
		log.Duration("took", took),
	}
	if err != nil {
		o.Logger.Warn("Event handler failed", append(fields, log.Error(err))...)
		return
	}
	o.Logger.Debug("Event delivered", fields...)
}
