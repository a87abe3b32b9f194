package documents

import (
	"errors"
	"time"
)

// Document represents an uploaded file attached to a case. Rows are immutable
// after creation except for deletion.
type Document struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"caseId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	StorageKey string    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

var ErrNotFound = errors.New("document not found")
