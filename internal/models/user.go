package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User owns properties through the allProperties reference list. Users are
// never deleted; the only mutation after creation is appending a property
// reference when that user lists a new property.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Email         string               `bson:"email" json:"email"`
	Avatar        string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	AllProperties []primitive.ObjectID `bson:"allProperties" json:"allProperties"`
}

// UserDetail is the response shape with owned property references expanded to
// full documents.
type UserDetail struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Avatar        string             `json:"avatar,omitempty"`
	AllProperties []Property         `json:"allProperties"`
}
