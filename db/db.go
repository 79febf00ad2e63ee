package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// extractDBName parses the database name from the URI, defaulting to "essayhub"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "essayhub"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "essayhub"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	return nil
}

// Store is the persistence gateway over the Mongo collections. It
// implements the slices of behavior the grading core consumes.
type Store struct {
	users       *mongo.Collection
	classrooms  *mongo.Collection
	enrollments *mongo.Collection
	essays      *mongo.Collection
	evaluations *mongo.Collection
}

func NewStore(database *mongo.Database) *Store {
	return &Store{
		users:       database.Collection("users"),
		classrooms:  database.Collection("classrooms"),
		enrollments: database.Collection("enrollments"),
		essays:      database.Collection("essays"),
		evaluations: database.Collection("evaluations"),
	}
}

// EnsureIndexes creates the uniqueness constraints the data model
// relies on: one account per email, one evaluation per (essay,
// competency), one enrollment per (classroom, student).
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user index: %w", err)
	}
	_, err = s.evaluations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "essayId", Value: 1}, {Key: "competency", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create evaluation index: %w", err)
	}
	_, err = s.enrollments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "classroomId", Value: 1}, {Key: "studentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create enrollment index: %w", err)
	}
	return nil
}

// parseID converts a hex id to an ObjectID; a malformed id behaves like
// an unknown one.
func parseID(entity, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound(entity, id)
	}
	return oid, nil
}
