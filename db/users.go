package db

import (
	"context"
	"errors"
	"time"

	"essayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &duplicateEmailError{}
		}
		return persistErr("create user", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("user", id)
		}
		return nil, persistErr("get user", err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("user", email)
		}
		return nil, persistErr("get user by email", err)
	}
	return &user, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	oid, err := parseID("user", id)
	if err != nil {
		return err
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"passwordHash": passwordHash,
	}})
	if err != nil {
		return persistErr("update password", err)
	}
	if res.MatchedCount == 0 {
		return notFound("user", id)
	}
	return nil
}

// IsDuplicateEmail reports whether an error came from the unique email
// index.
func IsDuplicateEmail(err error) bool {
	var d *duplicateEmailError
	return errors.As(err, &d)
}

type duplicateEmailError struct{}

func (*duplicateEmailError) Error() string { return "email already registered" }
