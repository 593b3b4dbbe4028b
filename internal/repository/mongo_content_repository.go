package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sunriseyouth/backend/internal/model"
)

// MongoContentRepository is the MongoDB implementation of ContentRepository.
type MongoContentRepository struct {
	coll *mongo.Collection
}

// NewMongoContentRepository creates a MongoContentRepository on db.
func NewMongoContentRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{coll: db.Collection(contentCollection)}
}

var _ ContentRepository = (*MongoContentRepository)(nil)

// Get returns the document stored under id. A payload that is not an
// object comes back as nil Data instead of failing the decode.
func (r *MongoContentRepository) Get(ctx context.Context, id string) (*model.Content, error) {
	var raw bson.M
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
		return nil, mongoErr("content.get", err)
	}
	return contentFromRaw(raw), nil
}

func contentFromRaw(raw bson.M) *model.Content {
	c := &model.Content{}
	c.ID, _ = raw["_id"].(string)

	switch data := raw["data"].(type) {
	case bson.M:
		c.Data = map[string]any(data)
	case map[string]any:
		c.Data = data
	case bson.D:
		c.Data = make(map[string]any, len(data))
		for _, e := range data {
			c.Data[e.Key] = e.Value
		}
	}

	switch at := raw["updatedAt"].(type) {
	case primitive.DateTime:
		t := at.Time().UTC()
		c.UpdatedAt = &t
	case time.Time:
		t := at.UTC()
		c.UpdatedAt = &t
	}
	return c
}

// Upsert replaces the payload of id, creating the document on first write.
func (r *MongoContentRepository) Upsert(ctx context.Context, id string, data map[string]any, at time.Time) (model.UpsertResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"data": data, "updatedAt": at}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return model.UpsertResult{}, mongoErr("content.upsert", err)
	}
	return model.UpsertResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount,
	}, nil
}
