package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"app/models"
)

// ErrInvalidID marks a report id that is not a well-formed ObjectID hex
// string, as opposed to one that simply does not exist.
var ErrInvalidID = errors.New("invalid report id")

var errNotConnected = errors.New("history store is not connected")

const opTimeout = 5 * time.Second

// Store persists finished reports to MongoDB and serves the history views.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	connected  bool
}

// New connects to MongoDB. A failed connection is logged and produces a
// disconnected store whose operations fail softly; history persistence is
// best effort and must never prevent startup.
func New(ctx context.Context, uri, dbName, collName string) *Store {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(opTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
		err = client.Ping(pingCtx, nil)
		cancel()
	}
	if err != nil {
		log.Printf("MongoDB connection failed, history persistence disabled: %v", err)
		return &Store{}
	}

	log.Printf("Connected to MongoDB %s.%s", dbName, collName)
	return &Store{
		client:     client,
		collection: client.Database(dbName).Collection(collName),
		connected:  true,
	}
}

// Connected reports whether the store reached MongoDB at startup.
func (s *Store) Connected() bool {
	return s.connected
}

// Save inserts one report document. Callers dispatch it on its own
// goroutine; failures are returned so the dispatcher can log them.
func (s *Store) Save(ctx context.Context, doc models.ReportDocument) error {
	if !s.connected {
		return errNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert report document: %w", err)
	}

	log.Printf("report saved to MongoDB as document %v", res.InsertedID)
	return nil
}

// Recommendations returns up to 100 flattened recommendation rows, one per
// recommendation entry, newest document first then by position in the table.
func (s *Store) Recommendations(ctx context.Context) ([]models.RecommendationRow, error) {
	if !s.connected {
		return nil, errNotConnected
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$recommendations"},
			{Key: "includeArrayIndex", Value: "index"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
			{Key: "timestamp", Value: "$creation_timestamp"},
			{Key: "index", Value: 1},
			{Key: "product_name", Value: "$recommendations.Product Name"},
			{Key: "supply_name", Value: "$recommendations.Supply Name"},
			{Key: "analysis", Value: "$recommendations.Analysis"},
			{Key: "promotional_strategy", Value: "$recommendations.Promotional Strategy"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "timestamp", Value: -1},
			{Key: "index", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: 100}},
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate recommendations: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []models.RecommendationRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	return rows, nil
}

// Delete removes exactly one report document. Returns false with a nil
// error when the id is well formed but no document matches, and
// ErrInvalidID when it is not a valid ObjectID.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	if !s.connected {
		return false, errNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return false, fmt.Errorf("failed to delete report %s: %w", id, err)
	}

	return res.DeletedCount == 1, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) {
	if s.client != nil {
		if err := s.client.Disconnect(ctx); err != nil {
			log.Printf("error closing MongoDB connection: %v", err)
		}
	}
}
