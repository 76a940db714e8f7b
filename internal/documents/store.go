package documents

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unibase/internal/db"
	"unibase/internal/models"
)

const counterKey = "documents"

// Store owns every Document. Mutations are atomic per document because each
// one maps to a single-document MongoDB operation; unrelated documents never
// contend on a shared lock.
type Store struct {
	documents *mongo.Collection
	counters  *mongo.Collection
}

func NewStore(d *db.DB) *Store {
	return &Store{
		documents: d.Documents,
		counters:  d.Counters,
	}
}

// nextID hands out ids from a counter that only ever increments, so an id is
// never reused after its document is deleted.
func (s *Store) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := s.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": counterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}

func (s *Store) Create(
	ctx context.Context,
	name string,
	data map[string]any,
	owner models.Principal,
) (models.Document, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return models.Document{}, err
	}

	if data == nil {
		data = map[string]any{}
	}

	doc := models.Document{
		ID:        id,
		Name:      name,
		Data:      data,
		UserID:    owner.ID,
		TenantID:  owner.TenantID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.documents.InsertOne(ctx, doc); err != nil {
		return models.Document{}, err
	}

	return doc, nil
}

// List returns the owner's documents in insertion order. A collection nobody
// has written to yields an empty slice, not an error.
func (s *Store) List(
	ctx context.Context,
	name string,
	owner models.Principal,
) ([]models.Document, error) {
	cursor, err := s.documents.Find(
		ctx,
		s.scope(name, owner),
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

// Update replaces the payload and stamps updatedAt in one atomic operation.
// A nil payload is a plain read under the same matching rule: the document
// is returned unchanged and updatedAt does not advance.
func (s *Store) Update(
	ctx context.Context,
	name string,
	id int64,
	data map[string]any,
	owner models.Principal,
) (models.Document, error) {
	filter := s.scope(name, owner)
	filter["id"] = id

	var doc models.Document

	if data == nil {
		err := s.documents.FindOne(ctx, filter).Decode(&doc)
		return doc, err
	}

	err := s.documents.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": bson.M{
			"data":      data,
			"updatedAt": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	return doc, err
}

// Delete removes the document for good and returns it so the caller can
// route the change event.
func (s *Store) Delete(
	ctx context.Context,
	name string,
	id int64,
	owner models.Principal,
) (models.Document, error) {
	filter := s.scope(name, owner)
	filter["id"] = id

	var doc models.Document
	err := s.documents.FindOneAndDelete(ctx, filter).Decode(&doc)

	return doc, err
}

// scope is the visibility rule: exact collection, exact owner, exact tenant.
// Update and delete go through it too, so a document can never be touched
// across tenants even when the id is known.
func (s *Store) scope(name string, owner models.Principal) bson.M {
	return bson.M{
		"name":     name,
		"userID":   owner.ID,
		"tenantID": owner.TenantID,
	}
}
