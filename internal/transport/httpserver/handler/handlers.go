package handler

import (
	"record-store-go/internal/transport/httpserver/handler/common"
	"record-store-go/internal/transport/httpserver/handler/documents"
	"record-store-go/pkg/logger"
)

type Handlers struct {
	Common    *common.Handlers
	Documents *documents.Handlers
}

func New(events common.EventStats, docs documents.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Common:    common.New(events, log),
		Documents: documents.New(docs, log),
	}
}
