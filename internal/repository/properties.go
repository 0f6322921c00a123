package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dwellio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyRepository struct {
	client     *mongo.Client
	properties *mongo.Collection
	users      *mongo.Collection
	txnTimeout time.Duration
}

func NewPropertyRepository(client *mongo.Client, db *mongo.Database, txnTimeout time.Duration) *PropertyRepository {
	return &PropertyRepository{
		client:     client,
		properties: db.Collection("properties"),
		users:      db.Collection("users"),
		txnTimeout: txnTimeout,
	}
}

// List counts and fetches on the same filter. The two reads are not atomic
// with respect to concurrent writes; the header total is best-effort by
// design.
func (r *PropertyRepository) List(ctx context.Context, q ListQuery) ([]models.PropertyListItem, int64, error) {
	filter, err := q.Filter()
	if err != nil {
		return nil, 0, err
	}

	total, err := r.properties.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.properties.Find(ctx, filter, q.FindOptions())
	if err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, err
	}

	creators, err := r.fetchCreators(ctx, properties)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.PropertyListItem, 0, len(properties))
	for _, property := range properties {
		creator := creators[property.Creator]
		items = append(items, models.PropertyListItem{
			ID:           property.ID,
			Title:        property.Title,
			Description:  property.Description,
			PropertyType: property.PropertyType,
			Location:     property.Location,
			Price:        property.Price,
			Photo:        property.Photo,
			Creator: models.CreatorSummary{
				ID:     creator.ID,
				Name:   creator.Name,
				Email:  creator.Email,
				Avatar: creator.Avatar,
			},
		})
	}
	return items, total, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (models.PropertyDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.PropertyDetail{}, ErrNotFound
	}

	var property models.Property
	if err := r.properties.FindOne(ctx, bson.M{"_id": oid}).Decode(&property); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PropertyDetail{}, ErrNotFound
		}
		return models.PropertyDetail{}, err
	}

	return r.expandProperty(ctx, property)
}

// Create inserts the property and appends its reference to the creator's
// owned list in one transaction. Either both writes commit or neither does;
// a missing creator aborts with ErrNotFound.
func (r *PropertyRepository) Create(ctx context.Context, property models.Property) (models.Property, error) {
	property.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, r.txnTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return models.Property{}, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.properties.InsertOne(sc, property); err != nil {
			return nil, err
		}
		res, err := r.users.UpdateOne(sc,
			bson.M{"_id": property.Creator},
			bson.M{"$push": bson.M{"allProperties": property.ID}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		return models.Property{}, err
	}
	return property, nil
}

// Update applies a per-field merge and returns the updated document with its
// creator expanded. A nil Photo leaves the stored photo untouched.
func (r *PropertyRepository) Update(ctx context.Context, id string, upd models.PropertyUpdate) (models.PropertyDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.PropertyDetail{}, ErrNotFound
	}

	set := bson.M{
		"title":        upd.Title,
		"description":  upd.Description,
		"propertyType": upd.PropertyType,
		"location":     upd.Location,
		"price":        upd.Price,
	}
	if upd.Photo != nil {
		set["photo"] = *upd.Photo
	}

	var property models.Property
	err = r.properties.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PropertyDetail{}, ErrNotFound
		}
		return models.PropertyDetail{}, err
	}

	return r.expandProperty(ctx, property)
}

// Delete removes the property document only. The owner's reference list is
// intentionally left alone; expansion skips dangling references.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.properties.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) expandProperty(ctx context.Context, property models.Property) (models.PropertyDetail, error) {
	var creator models.User
	err := r.users.FindOne(ctx, bson.M{"_id": property.Creator}).Decode(&creator)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return models.PropertyDetail{}, err
	}

	return models.PropertyDetail{
		ID:           property.ID,
		Title:        property.Title,
		Description:  property.Description,
		PropertyType: property.PropertyType,
		Location:     property.Location,
		Price:        property.Price,
		Photo:        property.Photo,
		Creator:      creator,
	}, nil
}

func (r *PropertyRepository) fetchCreators(ctx context.Context, properties []models.Property) (map[primitive.ObjectID]models.User, error) {
	creators := make(map[primitive.ObjectID]models.User, len(properties))
	if len(properties) == 0 {
		return creators, nil
	}

	ids := make([]primitive.ObjectID, 0, len(properties))
	seen := make(map[primitive.ObjectID]bool, len(properties))
	for _, property := range properties {
		if !seen[property.Creator] {
			seen[property.Creator] = true
			ids = append(ids, property.Creator)
		}
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, user := range users {
		creators[user.ID] = user
	}
	return creators, nil
}
