package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sunriseyouth/backend/internal/model"
)

// MongoMessageRepository is the MongoDB implementation of MessageRepository.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository creates a MongoMessageRepository on db.
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(messagesCollection)}
}

var _ MessageRepository = (*MongoMessageRepository)(nil)

// Insert stores msg under a freshly generated id.
func (r *MongoMessageRepository) Insert(ctx context.Context, msg *model.Message) error {
	doc := *msg
	doc.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mongoErr("messages.insert", err)
	}
	msg.ID = doc.ID
	return nil
}

func messageFilter(f model.MessageFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Subject != "" {
		filter["subject"] = f.Subject
	}
	return filter
}

// List returns one page of messages matching q.
func (r *MongoMessageRepository) List(ctx context.Context, q model.MessageQuery) ([]*model.Message, error) {
	sortKey := q.Sort
	if !model.IsValidMessageSort(sortKey) {
		sortKey = model.SortSubmittedAt
	}
	dir := 1
	if q.Desc {
		dir = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortKey, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cur, err := r.coll.Find(ctx, messageFilter(q.Filter), opts)
	if err != nil {
		return nil, mongoErr("messages.list", err)
	}
	messages := []*model.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, mongoErr("messages.list", err)
	}
	return messages, nil
}

// Count returns the number of messages matching f.
func (r *MongoMessageRepository) Count(ctx context.Context, f model.MessageFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, messageFilter(f))
	if err != nil {
		return 0, mongoErr("messages.count", err)
	}
	return n, nil
}

// UpdateStatus applies a status change; a missing response stamp is unset.
func (r *MongoMessageRepository) UpdateStatus(ctx context.Context, id string, upd model.MessageStatusUpdate) error {
	set := bson.M{
		"status":    upd.Status,
		"updatedAt": upd.UpdatedAt,
	}
	if upd.AdminNotes != nil {
		set["adminNotes"] = *upd.AdminNotes
	}
	update := bson.M{"$set": set}
	if upd.RespondedAt != nil {
		set["respondedAt"] = *upd.RespondedAt
		set["respondedBy"] = derefString(upd.RespondedBy)
	} else {
		update["$unset"] = bson.M{"respondedAt": "", "respondedBy": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoErr("messages.update_status", err)
	}
	if res.MatchedCount == 0 {
		return notFound("messages.update_status")
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
