package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two users stored in MongoDB
type Message struct {
	ID      primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Message string             `json:"message" bson:"message"`
	From    primitive.ObjectID `json:"from" bson:"from"`
	To      primitive.ObjectID `json:"to" bson:"to"`
	SentOn  time.Time          `json:"sentOn" bson:"sentOn"`
	Edited  bool               `json:"edited" bson:"edited"`
}

// PopulatedMessage is a message read through an aggregation that may have
// expanded the sender, the recipient, or both.
type PopulatedMessage struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Message string             `json:"message" bson:"message"`
	From    UserRef            `json:"from" bson:"from,omitempty"`
	To      UserRef            `json:"to" bson:"to,omitempty"`
	SentOn  time.Time          `json:"sentOn" bson:"sentOn"`
	Edited  bool               `json:"edited" bson:"edited"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

// UpdateMessageRequest defines the request body for editing a message
type UpdateMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}
