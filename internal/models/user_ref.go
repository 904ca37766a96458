package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRef is a user reference that decodes from either a bare ObjectID or
// an embedded user document produced by a $lookup.
type UserRef struct {
	ID   primitive.ObjectID
	User *UserCompact
}

// Populated reports whether the reference was expanded
func (r UserRef) Populated() bool {
	return r.User != nil
}

func (r *UserRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		r.ID = raw.ObjectID()
		r.User = nil
	case bsontype.EmbeddedDocument:
		var u UserCompact
		if err := raw.Unmarshal(&u); err != nil {
			return err
		}
		r.ID = u.ID
		r.User = &u
	case bsontype.Null, bsontype.Undefined:
		*r = UserRef{}
	default:
		return fmt.Errorf("cannot decode %s into a user reference", t)
	}
	return nil
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	if r.ID.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}
