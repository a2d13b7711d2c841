package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo implements Store on a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB at uri and verifies connectivity.
func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("store: mongo ping failed: %w", err)
	}

	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

func (m *Mongo) Name() string { return m.db.Name() }

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	return m.db.Collection(collection).CountDocuments(ctx, toBSON(f))
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (m *Mongo) Query(ctx context.Context, collection string, f Filter) ([]Document, error) {
	cur, err := m.db.Collection(collection).Find(ctx, toBSON(f))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, fromBSON(row))
	}
	return docs, nil
}

func (m *Mongo) FindOne(ctx context.Context, collection string, f Filter) (Document, error) {
	var row bson.M
	err := m.db.Collection(collection).FindOne(ctx, toBSON(f)).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(row), nil
}

func (m *Mongo) Upsert(ctx context.Context, collection string, f Filter, set, setOnInsert Document) error {
	update := bson.M{"$set": bson.M(set)}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = bson.M(setOnInsert)
	}
	_, err := m.db.Collection(collection).UpdateOne(
		ctx, toBSON(f), update, options.Update().SetUpsert(true))
	return err
}

func toBSON(f Filter) bson.M {
	q := bson.M{}
	for _, c := range f.Conds {
		q[c.Field] = condValue(c)
	}
	if len(f.Any) > 0 {
		or := make(bson.A, 0, len(f.Any))
		for _, c := range f.Any {
			or = append(or, bson.M{c.Field: condValue(c)})
		}
		q["$or"] = or
	}
	return q
}

func condValue(c Cond) any {
	switch c.Op {
	case OpSubstr:
		return bson.M{"$regex": regexp.QuoteMeta(c.Value.(string)), "$options": "i"}
	case OpAll:
		return bson.M{"$all": c.Value.([]string)}
	default:
		return c.Value
	}
}

// fromBSON flattens a decoded row into a Document, rendering the Mongo
// ObjectId as a plain string so callers never see driver types.
func fromBSON(row bson.M) Document {
	doc := Document{}
	for k, v := range row {
		if k == "_id" {
			doc[k] = idString(v)
			continue
		}
		doc[k] = normalize(v)
	}
	return doc
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		sub := make(map[string]any, len(t))
		for k, e := range t {
			sub[k] = normalize(e)
		}
		return sub
	case bson.A:
		arr := make([]any, 0, len(t))
		for _, e := range t {
			arr = append(arr, normalize(e))
		}
		return arr
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
