package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, fromID, toID, text string) (*models.Message, error)
	GetMessageByID(ctx context.Context, id string) (*models.Message, error)
	FindMessagesSentByUser(ctx context.Context, userID string) ([]models.PopulatedMessage, error)
	FindMessagesReceivedByUser(ctx context.Context, userID string) ([]models.PopulatedMessage, error)
	FindMessagesBetweenUsers(ctx context.Context, userID, otherID string) ([]models.PopulatedMessage, error)
	FindLatestMessagesForUser(ctx context.Context, userID string) ([]models.PopulatedMessage, error)
	UpdateMessage(ctx context.Context, id, text string) (*models.Message, error)
	DeleteMessage(ctx context.Context, id string) (*models.DeleteResult, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage stores a new message sent from one user to another
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, fromID, toID, text string) (*models.Message, error) {
	from, err := parseObjectID("user", fromID)
	if err != nil {
		return nil, err
	}
	to, err := parseObjectID("user", toID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:      primitive.NewObjectID(),
		Message: text,
		From:    from,
		To:      to,
		SentOn:  time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessageByID retrieves a message by ID
func (r *MongoMessageRepository) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	objID, err := parseObjectID("message", id)
	if err != nil {
		return nil, err
	}

	var msg models.Message
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// FindMessagesSentByUser lists messages sent by the user with recipients expanded
func (r *MongoMessageRepository) FindMessagesSentByUser(ctx context.Context, userID string) ([]models.PopulatedMessage, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "from", Value: uid}}}},
	}
	pipeline = append(pipeline, populateUser("to")...)
	return r.aggregate(ctx, pipeline)
}

// FindMessagesReceivedByUser lists messages sent to the user with senders expanded
func (r *MongoMessageRepository) FindMessagesReceivedByUser(ctx context.Context, userID string) ([]models.PopulatedMessage, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "to", Value: uid}}}},
	}
	pipeline = append(pipeline, populateUser("from")...)
	return r.aggregate(ctx, pipeline)
}

// FindMessagesBetweenUsers returns the conversation between two users, oldest first
func (r *MongoMessageRepository) FindMessagesBetweenUsers(ctx context.Context, userID, otherID string) ([]models.PopulatedMessage, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID("user", otherID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "from", Value: uid}, {Key: "to", Value: oid}},
			bson.D{{Key: "from", Value: oid}, {Key: "to", Value: uid}},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "sentOn", Value: 1}}}},
	}
	pipeline = append(pipeline, populateUser("from")...)
	pipeline = append(pipeline, populateUser("to")...)
	return r.aggregate(ctx, pipeline)
}

// FindLatestMessagesForUser returns the most recent message of every
// (from, to) pair the user takes part in, newest first.
func (r *MongoMessageRepository) FindLatestMessagesForUser(ctx context.Context, userID string) ([]models.PopulatedMessage, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "from", Value: uid}},
			bson.D{{Key: "to", Value: uid}},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "sentOn", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "from", Value: "$from"}, {Key: "to", Value: "$to"}}},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "sentOn", Value: -1}}}},
	}
	pipeline = append(pipeline, populateUser("from")...)
	pipeline = append(pipeline, populateUser("to")...)
	return r.aggregate(ctx, pipeline)
}

// UpdateMessage replaces the text of a message and marks it edited
func (r *MongoMessageRepository) UpdateMessage(ctx context.Context, id, text string) (*models.Message, error) {
	objID, err := parseObjectID("message", id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"message": text, "edited": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg models.Message
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage removes a message. Stars that reference it are left in place.
func (r *MongoMessageRepository) DeleteMessage(ctx context.Context, id string) (*models.DeleteResult, error) {
	objID, err := parseObjectID("message", id)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return nil, err
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *MongoMessageRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.PopulatedMessage, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.PopulatedMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.PopulatedMessage{}
	}
	return messages, nil
}
