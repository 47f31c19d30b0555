package document

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)
