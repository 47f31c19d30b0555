package document

import "time"

const TableName = "documents"

type Document struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Tags      string    `json:"tags,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Document) GetID() string {
	return d.ID
}

func (Document) TableName() string {
	return TableName
}

type CreateInput struct {
	// ID is optional; a random UUID is assigned when empty.
	ID    string
	Title string
	Body  string
	Tags  string
}

type UpdateInput struct {
	ID    string
	Title *string
	Body  *string
	Tags  *string
}
