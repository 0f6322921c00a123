package repository

import (
	"context"
	"errors"

	"github.com/dwellio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	users      *mongo.Collection
	properties *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:      db.Collection("users"),
		properties: db.Collection("properties"),
	}
}

func (r *UserRepository) List(ctx context.Context) ([]models.UserDetail, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	var refs []primitive.ObjectID
	for _, user := range users {
		refs = append(refs, user.AllProperties...)
	}

	owned, err := r.fetchProperties(ctx, refs)
	if err != nil {
		return nil, err
	}

	details := make([]models.UserDetail, 0, len(users))
	for _, user := range users {
		details = append(details, expandUser(user, owned))
	}
	return details, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.UserDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UserDetail{}, ErrNotFound
	}

	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.UserDetail{}, ErrNotFound
		}
		return models.UserDetail{}, err
	}

	owned, err := r.fetchProperties(ctx, user.AllProperties)
	if err != nil {
		return models.UserDetail{}, err
	}
	return expandUser(user, owned), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Create is an upsert by email: an existing user is returned unchanged, with
// created=false, instead of erroring or duplicating.
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, bool, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, false, err
	}

	user.ID = primitive.NewObjectID()
	if user.AllProperties == nil {
		user.AllProperties = []primitive.ObjectID{}
	}
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

// fetchProperties batch-loads property documents by id, the equivalent of a
// populate on the reference list.
func (r *UserRepository) fetchProperties(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Property, error) {
	owned := make(map[primitive.ObjectID]models.Property, len(ids))
	if len(ids) == 0 {
		return owned, nil
	}

	cursor, err := r.properties.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	for _, property := range properties {
		owned[property.ID] = property
	}
	return owned, nil
}

// expandUser resolves the reference list in order, skipping references whose
// property has since been deleted.
func expandUser(user models.User, owned map[primitive.ObjectID]models.Property) models.UserDetail {
	expanded := make([]models.Property, 0, len(user.AllProperties))
	for _, ref := range user.AllProperties {
		if property, ok := owned[ref]; ok {
			expanded = append(expanded, property)
		}
	}
	return models.UserDetail{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Avatar:        user.Avatar,
		AllProperties: expanded,
	}
}
