package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultPageSize = 10

// ListQuery carries normalized listing parameters. Callers resolve the
// creator/creator_eq spelling and the "All" type sentinel before building one,
// so an empty field always means "no filter".
type ListQuery struct {
	Start        int
	End          int // page size; the client sends the limit directly in _end
	Sort         string
	Order        string
	TitleLike    string
	PropertyType string
	Creator      string // hex object id
}

// Filter builds the match document shared by the count and find calls.
func (q ListQuery) Filter() (bson.M, error) {
	filter := bson.M{}

	if q.PropertyType != "" {
		filter["propertyType"] = q.PropertyType
	}
	if q.TitleLike != "" {
		filter["title"] = bson.M{"$regex": q.TitleLike, "$options": "i"}
	}
	if q.Creator != "" {
		id, err := primitive.ObjectIDFromHex(q.Creator)
		if err != nil {
			return nil, fmt.Errorf("invalid creator id %q: %w", q.Creator, err)
		}
		filter["creator"] = id
	}

	return filter, nil
}

func (q ListQuery) Limit() int {
	if q.End > 0 {
		return q.End
	}
	return DefaultPageSize
}

func (q ListQuery) Skip() int {
	if q.Start > 0 {
		return q.Start
	}
	return 0
}

func (q ListQuery) SortField() string {
	if q.Sort != "" {
		return q.Sort
	}
	return "_id"
}

func (q ListQuery) SortDirection() int {
	if q.Order == "desc" {
		return -1
	}
	return 1
}

func (q ListQuery) FindOptions() *options.FindOptions {
	return options.Find().
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit())).
		SetSort(bson.D{{Key: q.SortField(), Value: q.SortDirection()}})
}
