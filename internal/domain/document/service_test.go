package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"record-store-go/internal/backend/memory"
	"record-store-go/internal/store"
)

type recordingListener struct {
	puts    []string
	deletes []string
}

func (l *recordingListener) OnPut(_ context.Context, value *Document) error {
	l.puts = append(l.puts, value.ID)
	return nil
}

func (l *recordingListener) OnDelete(_ context.Context, id string) error {
	l.deletes = append(l.deletes, id)
	return nil
}

func (l *recordingListener) OnDeleteValue(_ context.Context, value *Document) error {
	l.deletes = append(l.deletes, value.ID)
	return nil
}

func newTestService(t *testing.T) (*Service, *memory.Backend[*Document], *recordingListener) {
	t.Helper()
	backend := memory.New[*Document]()
	listener := &recordingListener{}
	s, err := store.New[*Document](backend, store.Config[*Document]{
		Name:          "documents",
		PartitionSize: 2,
		Listeners:     []store.Listener[*Document]{listener},
	})
	require.NoError(t, err)

	svc := NewService(s)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, backend, listener
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	svc, backend, listener := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateInput{Title: "  Notes ", Body: "body", Tags: "Go, go ,store,"})
	require.NoError(t, err)

	_, err = uuid.Parse(doc.ID)
	require.NoError(t, err)
	require.Equal(t, "Notes", doc.Title)
	require.Equal(t, "go,store", doc.Tags)
	require.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	require.Equal(t, 1, backend.Len())
	require.Equal(t, []string{doc.ID}, listener.puts)

	withID, err := svc.Create(ctx, CreateInput{ID: "fixed", Title: "t"})
	require.NoError(t, err)
	require.Equal(t, "fixed", withID.ID)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, backend, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Title: "   "})
	require.ErrorIs(t, err, ErrTitleRequired)
	require.Zero(t, backend.Len())
}

func TestCreateManyIsValidatedUpFront(t *testing.T) {
	svc, backend, listener := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMany(ctx, []CreateInput{{Title: "a"}, {Title: ""}, {Title: "c"}})
	require.ErrorIs(t, err, ErrTitleRequired)
	require.Zero(t, backend.Len())

	docs, err := svc.CreateMany(ctx, []CreateInput{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}, {ID: "3", Title: "c"}})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, []string{"1", "2", "3"}, listener.puts)
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{ID: "d", Title: "old", Body: "keep"})
	require.NoError(t, err)

	later := created.CreatedAt.Add(time.Hour)
	svc.now = func() time.Time { return later }

	title := "new"
	updated, err := svc.Update(ctx, UpdateInput{ID: "d", Title: &title})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Title)
	require.Equal(t, "keep", updated.Body)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, later, updated.UpdatedAt)

	got, err := svc.Get(ctx, "d")
	require.NoError(t, err)
	require.Equal(t, "new", got.Title)

	_, err = svc.Update(ctx, UpdateInput{ID: "d"})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)

	blank := " "
	_, err = svc.Update(ctx, UpdateInput{ID: "d", Title: &blank})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Update(ctx, UpdateInput{ID: "missing", Title: &title})
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestGetAndList(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "")
	require.ErrorIs(t, err, ErrDocumentNotFound)

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, CreateInput{ID: id, Title: id})
		require.NoError(t, err)
	}

	docs, err := svc.List(ctx, []string{"c", "", "x", "a"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "c", docs[0].ID)
	require.Equal(t, "a", docs[1].ID)

	docs, err = svc.List(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, docs)
	require.Empty(t, docs)
}

func TestDelete(t *testing.T) {
	svc, backend, listener := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, CreateInput{ID: id, Title: id})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, "a"))
	require.ErrorIs(t, svc.Delete(ctx, "a"), ErrDocumentNotFound)

	require.NoError(t, svc.DeleteMany(ctx, []string{"b", "c", "zzz"}))
	require.Zero(t, backend.Len())
	require.Equal(t, []string{"a", "b", "c", "zzz"}, listener.deletes)
}

type failingRepo struct {
	Repository
	err error
}

func (r failingRepo) Put(context.Context, *Document) error {
	return r.err
}

func TestCreatePropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("backend down")
	svc := NewService(failingRepo{err: storeErr})

	_, err := svc.Create(context.Background(), CreateInput{Title: "t"})
	require.ErrorIs(t, err, storeErr)
}

func TestNormalizeTags(t *testing.T) {
	require.Equal(t, "", normalizeTags(""))
	require.Equal(t, "a,b", normalizeTags(" A ,b,,a "))
}
