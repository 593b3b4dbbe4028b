package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by every Mongo repository.
const (
	messagesCollection = "messages"
	qrcodesCollection  = "qrcodes"
	contentCollection  = "content"
)

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// OpenMongo opens a Store backed by MongoDB and makes sure the indexes the
// queries rely on exist.
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: MONGODB_URL is not set")
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	db := client.Database(database)
	if err := EnsureMongoIndexes(pingCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Messages: NewMongoMessageRepository(db),
		QRCodes:  NewMongoQRCodeRepository(db),
		Content:  NewMongoContentRepository(db),
		db:       mongoPinger{client: client},
		close:    client.Disconnect,
	}, nil
}

// EnsureMongoIndexes creates the indexes used by listing and lookup. The
// unique index on qrcodes.code backs up the pre-insert existence check.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(messagesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "submittedAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}}},
		{Keys: bson.D{{Key: "submittedAt", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return mongoErr("messages.ensure_indexes", err)
	}

	_, err = db.Collection(qrcodesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	})
	if err != nil {
		return mongoErr("qrcodes.ensure_indexes", err)
	}
	return nil
}

// mongoErr classifies a driver error into a StoreError.
func mongoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound(op)
	case mongo.IsDuplicateKeyError(err):
		return newError(KindConflict, op, err)
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded):
		return newError(KindUnavailable, op, err)
	}
	return newError(KindInternal, op, err)
}
