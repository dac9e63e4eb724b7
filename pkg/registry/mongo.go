package registry

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

type mongoFlowDoc struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	ClassName       string    `bson:"class_name"`
	ExternalVersion string    `bson:"external_version"`
	UploadedAt      time.Time `bson:"uploaded_at"`
	Document        []byte    `bson:"document"`
}

type mongoTraceDoc struct {
	RunID    int64  `bson:"_id"`
	Document []byte `bson:"document"`
}

// MongoStore persists flows and traces in MongoDB. Flow documents keep
// their canonical JSON form alongside the indexed summary fields; traces
// keep their document form under the run id.
type MongoStore struct {
	client   *mongo.Client
	flows    *mongo.Collection
	traces   *mongo.Collection
	counters *mongo.Collection
}

// NewMongoStore connects to the MongoDB instance at uri and uses the named
// database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		flows:    db.Collection("flows"),
		traces:   db.Collection("traces"),
		counters: db.Collection("counters"),
	}, nil
}

// PutFlow stores the JSON form of the flow under a fresh UUID.
func (s *MongoStore) PutFlow(ctx context.Context, f *flow.Flow) (string, error) {
	var buf bytes.Buffer
	if err := flow.WriteJSON(f, &buf); err != nil {
		return "", err
	}
	doc := mongoFlowDoc{
		ID:              uuid.NewString(),
		Name:            f.Name,
		ClassName:       f.ClassName,
		ExternalVersion: f.ExternalVersion,
		UploadedAt:      time.Now().UTC(),
		Document:        buf.Bytes(),
	}
	if _, err := s.flows.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetFlow retrieves a flow by id.
func (s *MongoStore) GetFlow(ctx context.Context, id string) (*flow.Flow, error) {
	var doc mongoFlowDoc
	err := s.flows.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no flow with id %q", id)
	}
	if err != nil {
		return nil, err
	}
	return flow.ReadJSON(bytes.NewReader(doc.Document))
}

// ListFlows returns summaries, newest first.
func (s *MongoStore) ListFlows(ctx context.Context) ([]FlowSummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	cursor, err := s.flows.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []FlowSummary
	for cursor.Next(ctx) {
		var doc mongoFlowDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, FlowSummary{
			ID:              doc.ID,
			Name:            doc.Name,
			ClassName:       doc.ClassName,
			ExternalVersion: doc.ExternalVersion,
			UploadedAt:      doc.UploadedAt,
		})
	}
	return out, cursor.Err()
}

// DeleteFlow removes a flow by id.
func (s *MongoStore) DeleteFlow(ctx context.Context, id string) error {
	res, err := s.flows.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "no flow with id %q", id)
	}
	return nil
}

// PutTrace stores the document form of the trace under its run id.
func (s *MongoStore) PutTrace(ctx context.Context, t *trace.Trace) (int64, error) {
	if t.RunID == nil {
		id, err := s.nextRunID(ctx)
		if err != nil {
			return 0, err
		}
		t.RunID = &id
	}

	var buf bytes.Buffer
	if err := trace.WriteXML(t, &buf); err != nil {
		return 0, err
	}
	_, err := s.traces.ReplaceOne(ctx,
		bson.M{"_id": *t.RunID},
		mongoTraceDoc{RunID: *t.RunID, Document: buf.Bytes()},
		options.Replace().SetUpsert(true))
	if err != nil {
		return 0, err
	}
	return *t.RunID, nil
}

// GetTrace retrieves a trace by run id.
func (s *MongoStore) GetTrace(ctx context.Context, runID int64) (*trace.Trace, error) {
	var doc mongoTraceDoc
	err := s.traces.FindOne(ctx, bson.M{"_id": runID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no trace for run %d", runID)
	}
	if err != nil {
		return nil, err
	}
	return trace.ReadXML(bytes.NewReader(doc.Document))
}

// nextRunID atomically increments the run counter.
func (s *MongoStore) nextRunID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "run_id"},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
