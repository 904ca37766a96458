package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidID is wrapped when an identifier is not a valid ObjectID
	ErrInvalidID = errors.New("invalid ID format")
	// ErrNotFound is returned when a single-document read matches nothing
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("already exists")
)

// parseObjectID coerces a hex identifier into an ObjectID, naming the kind
// of reference in the error.
func parseObjectID(kind, id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s %q", ErrInvalidID, kind, id)
	}
	return objID, nil
}
