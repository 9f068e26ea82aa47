package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandlens/brandlens/internal/db"
)

// MongoDB implements the primary record store for query-result histories,
// session analytics and lifetime snapshots
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *db.Config
}

// Collection names
const (
	CollHistories = "brand_histories"
	CollSessions  = "session_analytics"
	CollLifetime  = "lifetime_analytics"
	CollLegacy    = "legacy_results"
)

// New creates a new MongoDB store instance
func New(config *db.Config) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// Database exposes the underlying handle for the blob bucket
func (m *MongoDB) Database() *mongo.Database {
	return m.database
}

// Records returns a key/value record store scoped to one collection
func (m *MongoDB) Records(collection string) db.RecordStore {
	return &recordStore{coll: m.database.Collection(collection)}
}

// createIndexes creates necessary indexes for optimal query performance
func (m *MongoDB) createIndexes(ctx context.Context) error {
	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "brand_id", Value: 1},
				{Key: "session_date", Value: -1},
			},
		},
	}
	if _, err := m.database.Collection(CollSessions).Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}

	lifetimeIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "brand_id", Value: 1},
				{Key: "computed_at", Value: -1},
			},
		},
	}
	if _, err := m.database.Collection(CollLifetime).Indexes().CreateMany(ctx, lifetimeIndexes); err != nil {
		return fmt.Errorf("failed to create lifetime indexes: %w", err)
	}

	legacyIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "brand_id", Value: 1},
			},
		},
	}
	if _, err := m.database.Collection(CollLegacy).Indexes().CreateMany(ctx, legacyIndexes); err != nil {
		return fmt.Errorf("failed to create legacy indexes: %w", err)
	}

	return nil
}

// SessionKeys lists a brand's session analytics keys, newest first
func (m *MongoDB) SessionKeys(ctx context.Context, brandID string) ([]string, error) {
	return m.findKeys(ctx, CollSessions, bson.M{"brand_id": brandID}, bson.D{{Key: "session_date", Value: -1}}, 0)
}

// LifetimeKeys lists a brand's lifetime snapshot keys, newest first
func (m *MongoDB) LifetimeKeys(ctx context.Context, brandID string) ([]string, error) {
	return m.findKeys(ctx, CollLifetime, bson.M{"brand_id": brandID}, bson.D{{Key: "computed_at", Value: -1}}, 0)
}

// LatestLifetimeKey returns the key of a brand's newest lifetime snapshot
func (m *MongoDB) LatestLifetimeKey(ctx context.Context, brandID string) (string, error) {
	keys, err := m.findKeys(ctx, CollLifetime, bson.M{"brand_id": brandID}, bson.D{{Key: "computed_at", Value: -1}}, 1)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", db.ErrNotFound
	}
	return keys[0], nil
}

// LegacyDocuments returns the brand's records kept in the long-term log of the
// predecessor system, as loosely-typed documents
func (m *MongoDB) LegacyDocuments(ctx context.Context, brandID string) ([]map[string]interface{}, error) {
	cursor, err := m.database.Collection(CollLegacy).Find(ctx, bson.M{"brand_id": brandID})
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []map[string]interface{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		docs = append(docs, normalizeDocument(doc))
	}

	return docs, cursor.Err()
}

func (m *MongoDB) findKeys(ctx context.Context, collection string, filter bson.M, sort bson.D, limit int64) ([]string, error) {
	opts := options.Find().SetSort(sort).SetProjection(bson.M{"_id": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := m.database.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var keys []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		keys = append(keys, doc.ID)
	}

	return keys, cursor.Err()
}
