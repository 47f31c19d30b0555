package common

import (
	"record-store-go/internal/event"
	"record-store-go/pkg/logger"
)

type EventStats interface {
	Stats() event.Stats
}

type Handlers struct {
	Events EventStats
	log    logger.Logger
}

func New(events EventStats, log logger.Logger) *Handlers {
	return &Handlers{
		Events: events,
		log:    log,
	}
}
