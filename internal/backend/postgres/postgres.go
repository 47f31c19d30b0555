package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"record-store-go/internal/store"
)

const defaultIDColumn = "id"

// Backend stores records in one table through gorm. T must be a pointer to a
// gorm model whose primary key column holds the record id.
type Backend[T store.Record] struct {
	db       *gorm.DB
	table    string
	idColumn string
}

func New[T store.Record](db *gorm.DB, table string) *Backend[T] {
	return &Backend[T]{db: db, table: table, idColumn: defaultIDColumn}
}

// WithIDColumn returns a copy of the backend keyed on a different column.
func (b *Backend[T]) WithIDColumn(column string) *Backend[T] {
	return &Backend[T]{db: b.db, table: b.table, idColumn: column}
}

func (b *Backend[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var rows []T
	err := b.db.WithContext(ctx).
		Table(b.table).
		Where(clause.Eq{Column: clause.Column{Name: b.idColumn}, Value: id}).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		var zero T
		return zero, false, err
	}
	return rows[0], true, nil
}

func (b *Backend[T]) GetBatch(ctx context.Context, ids []string) ([]T, error) {
	var rows []T
	if err := b.db.WithContext(ctx).
		Table(b.table).
		Where(clause.IN{Column: clause.Column{Name: b.idColumn}, Values: toValues(ids)}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return orderByIDs(rows, ids), nil
}

// Put inserts value or overwrites the stored row. Creation timestamps of an
// existing row are kept.
func (b *Backend[T]) Put(ctx context.Context, value T) error {
	return b.upsert(ctx, value)
}

// PutBatch upserts the partition in a single statement.
func (b *Backend[T]) PutBatch(ctx context.Context, values []T) error {
	return b.upsert(ctx, values)
}

func (b *Backend[T]) upsert(ctx context.Context, values any) error {
	return b.db.WithContext(ctx).
		Table(b.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: b.idColumn}},
			UpdateAll: true,
		}).
		Create(values).Error
}

func (b *Backend[T]) Delete(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).
		Exec("DELETE FROM ? WHERE ? = ?", clause.Table{Name: b.table}, clause.Column{Name: b.idColumn}, id).Error
}

func (b *Backend[T]) DeleteBatch(ctx context.Context, ids []string) error {
	return b.db.WithContext(ctx).
		Exec("DELETE FROM ? WHERE ? IN ?", clause.Table{Name: b.table}, clause.Column{Name: b.idColumn}, ids).Error
}

func (b *Backend[T]) DeleteBatchByValue(ctx context.Context, values []T) error {
	ids := make([]string, 0, len(values))
	for _, value := range values {
		ids = append(ids, value.GetID())
	}
	return b.DeleteBatch(ctx, ids)
}

func toValues(ids []string) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}

// orderByIDs returns rows in the order their ids were requested; SQL gives no
// ordering guarantee for IN lists.
func orderByIDs[T store.Record](rows []T, ids []string) []T {
	byID := make(map[string]T, len(rows))
	for _, row := range rows {
		byID[row.GetID()] = row
	}
	out := make([]T, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, row)
			delete(byID, id)
		}
	}
	return out
}
