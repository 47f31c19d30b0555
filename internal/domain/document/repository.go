package document

import "context"

// Repository is the subset of the record store the service needs.
type Repository interface {
	Get(ctx context.Context, id string) (*Document, bool, error)
	GetAll(ctx context.Context, ids ...string) ([]*Document, error)
	Put(ctx context.Context, value *Document) error
	PutAll(ctx context.Context, values ...*Document) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, ids ...string) error
}
