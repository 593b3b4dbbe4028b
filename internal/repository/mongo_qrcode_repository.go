package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sunriseyouth/backend/internal/model"
)

// MongoQRCodeRepository is the MongoDB implementation of QRCodeRepository.
type MongoQRCodeRepository struct {
	coll *mongo.Collection
}

// NewMongoQRCodeRepository creates a MongoQRCodeRepository on db.
func NewMongoQRCodeRepository(db *mongo.Database) *MongoQRCodeRepository {
	return &MongoQRCodeRepository{coll: db.Collection(qrcodesCollection)}
}

var _ QRCodeRepository = (*MongoQRCodeRepository)(nil)

// Insert stores qr under a freshly generated id.
func (r *MongoQRCodeRepository) Insert(ctx context.Context, qr *model.QRCode) error {
	doc := *qr
	doc.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mongoErr("qrcodes.insert", err)
	}
	qr.ID = doc.ID
	return nil
}

// ExistsByCode reports whether a document with code exists.
func (r *MongoQRCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, mongoErr("qrcodes.exists", err)
	}
	return n > 0, nil
}

func (r *MongoQRCodeRepository) findOne(ctx context.Context, op string, filter bson.M) (*model.QRCode, error) {
	var q model.QRCode
	if err := r.coll.FindOne(ctx, filter).Decode(&q); err != nil {
		return nil, mongoErr(op, err)
	}
	return &q, nil
}

// FindByCode returns the QR code with the given short code.
func (r *MongoQRCodeRepository) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	return r.findOne(ctx, "qrcodes.find_by_code", bson.M{"code": code})
}

// FindByID returns the QR code with the given id.
func (r *MongoQRCodeRepository) FindByID(ctx context.Context, id string) (*model.QRCode, error) {
	return r.findOne(ctx, "qrcodes.find_by_id", bson.M{"_id": id})
}

// List returns QR codes newest first.
func (r *MongoQRCodeRepository) List(ctx context.Context, skip, limit int) ([]*model.QRCode, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoErr("qrcodes.list", err)
	}
	codes := []*model.QRCode{}
	if err := cur.All(ctx, &codes); err != nil {
		return nil, mongoErr("qrcodes.list", err)
	}
	return codes, nil
}

// Count returns the number of QR codes.
func (r *MongoQRCodeRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mongoErr("qrcodes.count", err)
	}
	return n, nil
}

// Update applies the editable members of upd. An empty description is
// unset rather than stored.
func (r *MongoQRCodeRepository) Update(ctx context.Context, id string, upd model.QRCodeUpdate) error {
	set := bson.M{"updatedAt": upd.UpdatedAt}
	update := bson.M{"$set": set}
	if upd.Link != nil {
		set["link"] = *upd.Link
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			update["$unset"] = bson.M{"description": ""}
		} else {
			set["description"] = *upd.Description
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoErr("qrcodes.update", err)
	}
	if res.MatchedCount == 0 {
		return notFound("qrcodes.update")
	}
	return nil
}

// Delete removes the QR code with the given id.
func (r *MongoQRCodeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("qrcodes.delete", err)
	}
	if res.DeletedCount == 0 {
		return notFound("qrcodes.delete")
	}
	return nil
}

// IncrementClicks bumps clickCount with $inc so concurrent increments
// never lose updates.
func (r *MongoQRCodeRepository) IncrementClicks(ctx context.Context, code string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{
			"$inc": bson.M{"clickCount": 1},
			"$set": bson.M{"lastClickedAt": at},
		},
	)
	if err != nil {
		return mongoErr("qrcodes.increment_clicks", err)
	}
	if res.MatchedCount == 0 {
		return notFound("qrcodes.increment_clicks")
	}
	return nil
}
