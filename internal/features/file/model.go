package file

import (
	"time"

	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is a file bound to one request. The blob itself lives on disk
// under config.FSPath; the row only carries metadata and the public URL.
type Attachment struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OriginalFilename string             `json:"original_filename" bson:"original_filename"`
	URL              string             `json:"url" bson:"url"`
	Path             string             `json:"path" bson:"path"`
	Size             int64              `json:"size" bson:"size"`
	MimeType         string             `json:"mime_type" bson:"mime_type"`
	FormType         workflow.FormType  `json:"form_type" bson:"form_type"`
	RequestID        primitive.ObjectID `json:"request_id" bson:"request_id"`
	UploadedBy       primitive.ObjectID `json:"uploaded_by" bson:"uploaded_by"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
}
