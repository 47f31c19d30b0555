package documents

import (
	"context"

	documentdomain "record-store-go/internal/domain/document"
	"record-store-go/pkg/logger"
)

type Service interface {
	Get(ctx context.Context, id string) (*documentdomain.Document, error)
	List(ctx context.Context, ids []string) ([]*documentdomain.Document, error)
	Create(ctx context.Context, input documentdomain.CreateInput) (*documentdomain.Document, error)
	CreateMany(ctx context.Context, inputs []documentdomain.CreateInput) ([]*documentdomain.Document, error)
	Update(ctx context.Context, input documentdomain.UpdateInput) (*documentdomain.Document, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

type Handlers struct {
	Documents Service
	log       logger.Logger
}

func New(documents Service, log logger.Logger) *Handlers {
	return &Handlers{
		Documents: documents,
		log:       log,
	}
}
