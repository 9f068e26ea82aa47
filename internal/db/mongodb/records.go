package mongodb

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandlens/brandlens/internal/db"
)

// recordStore adapts one collection to the key/value RecordStore contract
type recordStore struct {
	coll *mongo.Collection
}

// Put upserts the document under key
func (r *recordStore) Put(ctx context.Context, key string, doc map[string]interface{}) error {
	payload := bson.M{"_id": key}
	for field, value := range doc {
		if field == "_id" {
			continue
		}
		payload[field] = value
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, payload, opts); err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// Get reads the document under key
func (r *recordStore) Get(ctx context.Context, key string) (map[string]interface{}, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	delete(doc, "_id")
	return normalizeDocument(doc), nil
}

// Delete removes the document under key
func (r *recordStore) Delete(ctx context.Context, key string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// MongoDB error codes for the "document too large" class
var exhaustedCodes = map[int]bool{
	10334: true, // BSONObjectTooLarge
	17419: true, // resulting document after update is larger than the max
}

// classifyWriteError wraps size/quota errors so the overflow store can react
// with its minimal-field retry
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if exhaustedCodes[we.Code] {
				return &db.ResourceExhaustedError{Err: err}
			}
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && exhaustedCodes[int(cmdErr.Code)] {
		return &db.ResourceExhaustedError{Err: err}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "too large") || strings.Contains(msg, "resource exhausted") {
		return &db.ResourceExhaustedError{Err: err}
	}

	return err
}

// normalizeDocument converts bson container types into plain maps and slices
// so callers can treat documents uniformly regardless of their origin
func normalizeDocument(doc bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for field, value := range doc {
		out[field] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		return normalizeDocument(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for field, item := range v {
			out[field] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(v))
		for _, elem := range v {
			out[elem.Key] = normalizeValue(elem.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case primitive.DateTime:
		return v.Time()
	case primitive.ObjectID:
		return v.Hex()
	default:
		return value
	}
}
