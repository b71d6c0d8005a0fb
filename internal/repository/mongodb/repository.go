package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

// Repository defines the document-store gateway for ledger records. Records
// are insert-only; listing returns documents in no particular order and
// callers re-sort.
type Repository interface {
	SaveRecord(ctx context.Context, record models.MillRecord) (string, error)
	ListRecords(ctx context.Context) ([]models.StoredRecord, error)
	SaveDigest(ctx context.Context, digest models.DailyDigest) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client      *mongo.Client
	dbName      string
	recordsColl string
	digestsColl string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:      client,
		dbName:      dbName,
		recordsColl: "mill_records",
		digestsColl: "daily_digests",
	}, nil
}

// SaveRecord inserts one immutable ledger record and returns its document id.
// The creation timestamp is assigned here when the caller left it zero.
func (r *MongoDBRepository) SaveRecord(ctx context.Context, record models.MillRecord) (string, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	collection := r.client.Database(r.dbName).Collection(r.recordsColl)
	res, err := collection.InsertOne(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to insert mill record: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// ListRecords returns every stored ledger record.
func (r *MongoDBRepository) ListRecords(ctx context.Context) ([]models.StoredRecord, error) {
	collection := r.client.Database(r.dbName).Collection(r.recordsColl)

	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query mill records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.StoredRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode mill records: %w", err)
	}

	return records, nil
}

// SaveDigest stores one daily digest document.
func (r *MongoDBRepository) SaveDigest(ctx context.Context, digest models.DailyDigest) error {
	collection := r.client.Database(r.dbName).Collection(r.digestsColl)
	if _, err := collection.InsertOne(ctx, digest); err != nil {
		return fmt.Errorf("failed to insert daily digest: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
