package repositories

import (
	"context"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StarRepository defines the interface for star data operations
type StarRepository interface {
	FindStarredMessagesByUser(ctx context.Context, userID string) ([]models.StarredMessage, error)
	CreateStar(ctx context.Context, userID, messageID string) (*models.Star, error)
	DeleteStar(ctx context.Context, userID, messageID string) (*models.DeleteResult, error)
}

// MongoStarRepository implements StarRepository for MongoDB
type MongoStarRepository struct {
	collection *mongo.Collection
}

// NewMongoStarRepository creates a new MongoStarRepository
func NewMongoStarRepository(db *mongo.Database) *MongoStarRepository {
	return &MongoStarRepository{collection: db.Collection("stars")}
}

// FindStarredMessagesByUser returns every star made by the user with the
// message and its sender expanded. No sort is applied, so results come back
// in natural (insertion) order.
func (r *MongoStarRepository) FindStarredMessagesByUser(ctx context.Context, userID string) ([]models.StarredMessage, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Aggregate(ctx, starredByUserPipeline(uid))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stars []models.StarredMessage
	if err = cursor.All(ctx, &stars); err != nil {
		return nil, err
	}
	if stars == nil {
		stars = []models.StarredMessage{}
	}
	return stars, nil
}

func starredByUserPipeline(uid primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "starredBy", Value: uid}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "messages"},
			{Key: "localField", Value: "message"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "message"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$message"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	pipeline = append(pipeline, populateUser("message.from")...)

	// a deleted message would otherwise come back as an empty document
	pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "message", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$message._id", false}}},
			"$message",
			"$$REMOVE",
		}}}},
	}}})
	return pipeline
}

// CreateStar always inserts a new star; an existing star on the same pair is
// not checked for.
func (r *MongoStarRepository) CreateStar(ctx context.Context, userID, messageID string) (*models.Star, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}
	mid, err := parseObjectID("message", messageID)
	if err != nil {
		return nil, err
	}

	star := &models.Star{
		ID:        primitive.NewObjectID(),
		Message:   mid,
		StarredBy: uid,
	}
	if _, err := r.collection.InsertOne(ctx, star); err != nil {
		return nil, err
	}
	return star, nil
}

// DeleteStar removes every star the user made on the message. Matching
// nothing is not an error.
func (r *MongoStarRepository) DeleteStar(ctx context.Context, userID, messageID string) (*models.DeleteResult, error) {
	uid, err := parseObjectID("user", userID)
	if err != nil {
		return nil, err
	}
	mid, err := parseObjectID("message", messageID)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.DeleteMany(ctx, bson.M{"message": mid, "starredBy": uid})
	if err != nil {
		return nil, err
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
