package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Star records that a user starred (bookmarked) a message. Nothing prevents
// the same user from starring the same message more than once.
type Star struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Message   primitive.ObjectID `json:"message" bson:"message"`
	StarredBy primitive.ObjectID `json:"starredBy" bson:"starredBy"`
}

// StarredMessage is a star read with its message reference expanded,
// and the message's sender expanded in turn. Message is nil when the
// referenced message no longer exists.
type StarredMessage struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Message   *PopulatedMessage  `json:"message" bson:"message,omitempty"`
	StarredBy primitive.ObjectID `json:"starredBy" bson:"starredBy"`
}

// DeleteResult reports the outcome of a delete operation
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
