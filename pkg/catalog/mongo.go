package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// MongoSource reads a catalog from a MongoDB collection holding one
// document per origin. Documents use the same field names as file
// records; the _id field is ignored.
type MongoSource struct {
	Collection *mongo.Collection
	Filter     bson.M // nil selects every document
}

// MongoConfig describes where a catalog collection lives.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// ConnectMongo opens a client for cfg and returns a source over the
// configured collection. The caller closes the client with Disconnect.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*MongoSource, *mongo.Client, error) {
	if cfg.URI == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is empty")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "mongo database and collection are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return &MongoSource{Collection: coll}, client, nil
}

// Load implements [Source].
func (s *MongoSource) Load(ctx context.Context) (*Catalog, error) {
	if s.Collection == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo collection is nil")
	}
	filter := s.Filter
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.Collection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", s.name())
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", s.name())
	}
	nodes, issues := decodeDocuments(docs)
	return newCatalog(s.name(), nodes, issues), nil
}

func (s *MongoSource) name() string {
	return fmt.Sprintf("mongo:%s.%s", s.Collection.Database().Name(), s.Collection.Name())
}

func decodeDocuments(docs []bson.M) ([]origin.Node, []Issue) {
	nodes := make([]origin.Node, 0, len(docs))
	var issues []Issue
	for i, doc := range docs {
		fields := plainMap(doc)
		delete(fields, "_id")
		n, err := decodeRecord(fields)
		if err != nil {
			issues = append(issues, Issue{Kind: IssueUndecodable, Index: i, ID: n.ID, Message: err.Error()})
		}
		nodes = append(nodes, n)
	}
	return nodes, issues
}

// plainMap converts BSON containers to plain maps and slices so records
// from Mongo take the same decoding path as file records.
func plainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}
