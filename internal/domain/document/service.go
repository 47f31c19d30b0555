package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	doc, ok, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// List returns the documents found for ids; unknown ids are skipped.
func (s *Service) List(ctx context.Context, ids []string) ([]*Document, error) {
	return s.repo.GetAll(ctx, ids...)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Document, error) {
	doc, err := s.newDocument(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateMany validates every input before anything is stored.
func (s *Service) CreateMany(ctx context.Context, inputs []CreateInput) ([]*Document, error) {
	docs := make([]*Document, 0, len(inputs))
	for _, input := range inputs {
		doc, err := s.newDocument(input)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := s.repo.PutAll(ctx, docs...); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Document, error) {
	if input.Title == nil && input.Body == nil && input.Tags == nil {
		return nil, ErrNoFieldsToUpdate
	}

	current, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	doc := *current
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		doc.Title = title
	}
	if input.Body != nil {
		doc.Body = *input.Body
	}
	if input.Tags != nil {
		doc.Tags = normalizeTags(*input.Tags)
	}
	doc.UpdatedAt = s.now().UTC()

	if err := s.repo.Put(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

// DeleteMany removes every listed id; unknown ids are not an error.
func (s *Service) DeleteMany(ctx context.Context, ids []string) error {
	return s.repo.DeleteAll(ctx, ids...)
}

func (s *Service) newDocument(input CreateInput) (*Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now().UTC()
	return &Document{
		ID:        id,
		Title:     title,
		Body:      input.Body,
		Tags:      normalizeTags(input.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// normalizeTags trims, lower-cases and de-duplicates a comma separated list.
func normalizeTags(raw string) string {
	seen := make(map[string]struct{})
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return strings.Join(tags, ",")
}
