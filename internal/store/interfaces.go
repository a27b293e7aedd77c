package store

import (
	"context"
	"errors"
	"time"

	"github.com/nrjais/pgarray/pkg/field"
	"github.com/nrjais/pgarray/pkg/pgarray"
)

var ErrDocumentNotFound = errors.New("array document not found")

// GridDescriptor is the declared type of the two-dimensional grid column.
var GridDescriptor = pgarray.MustDescriptor("int", 2)

// Document is a named record with one array column per supported element
// kind. Grid is multi-dimensional and travels through the generic Array
// field; Tags and Scores use the typed variants.
type Document struct {
	Name      string
	Tags      field.TextArray
	Scores    field.Float64Array
	Grid      field.Array
	UpdatedAt time.Time
}

// NewDocument builds a Document with the grid descriptor preset.
func NewDocument(name string) Document {
	return Document{
		Name: name,
		Grid: field.New(GridDescriptor, nil),
	}
}

// DocumentStore is the persistence contract shared by the Postgres and
// SQLite backends.
type DocumentStore interface {
	Save(ctx context.Context, doc Document) error
	Get(ctx context.Context, name string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, name string) error
}
