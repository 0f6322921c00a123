package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Location     string             `bson:"location" json:"location"`
	Price        float64            `bson:"price" json:"price"`
	Photo        string             `bson:"photo" json:"photo"`
	Creator      primitive.ObjectID `bson:"creator" json:"creator"`
}

// CreatorSummary is the trimmed creator projection attached to list items.
type CreatorSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Avatar string             `json:"avatar,omitempty"`
}

// PropertyListItem is a listing row with the creator reference expanded to a
// summary, mirroring a populate on name/email/avatar.
type PropertyListItem struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	PropertyType string             `json:"propertyType"`
	Location     string             `json:"location"`
	Price        float64            `json:"price"`
	Photo        string             `json:"photo"`
	Creator      CreatorSummary     `json:"creator"`
}

// PropertyDetail carries the full creator document; used for single-property
// fetches and update responses.
type PropertyDetail struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	PropertyType string             `json:"propertyType"`
	Location     string             `json:"location"`
	Price        float64            `json:"price"`
	Photo        string             `json:"photo"`
	Creator      User               `json:"creator"`
}

// PropertyUpdate is the per-field merge applied by updates. Photo is a pointer
// so an absent photo leaves the stored value untouched.
type PropertyUpdate struct {
	Title        string
	Description  string
	PropertyType string
	Location     string
	Price        float64
	Photo        *string
}
