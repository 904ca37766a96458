package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB holds the MongoDB connection
type DB struct {
	Mongo    *mongo.Client
	Database *mongo.Database
}

// InitDB connects to MongoDB, verifies the connection and ensures indexes
func InitDB(cfg *Config) (*DB, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	client, err := initMongo(cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	db := &DB{Mongo: client, Database: client.Database(cfg.MongoDatabase)}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()
	if err := EnsureIndexes(ctx, db.Database); err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return db, nil
}

func initMongo(uri string, timeout time.Duration) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")
	return client, nil
}

// EnsureIndexes creates the lookup indexes used by the star and message
// queries. None of them is unique: a user may star the same message twice.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("stars").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "starredBy", Value: 1}}},
		{Keys: bson.D{{Key: "message", Value: 1}, {Key: "starredBy", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("messages").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "from", Value: 1}, {Key: "sentOn", Value: -1}}},
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "sentOn", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "firebaseUID", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

// Ping checks that the primary is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.Mongo.Ping(ctx, nil)
}

// CloseDB closes the database connection
func (db *DB) CloseDB() {
	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v\n", err)
		} else {
			log.Println("MongoDB connection closed.")
		}
	}
}
