package domain

import (
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")

// Document is the metadata record for a shared file. Storage and upload
// mechanics live elsewhere; this core only tracks ownership and the
// visibility attribute that group policy gates on.
type Document struct {
	ID          string     `json:"id" bson:"_id"`
	ProjectID   string     `json:"project_id" bson:"project_id"`
	Name        string     `json:"name" bson:"name"`
	ContentType string     `json:"content_type" bson:"content_type"`
	SizeBytes   int64      `json:"size_bytes" bson:"size_bytes"`
	Visibility  Visibility `json:"visibility" bson:"visibility"`
	UploadedBy  string     `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
