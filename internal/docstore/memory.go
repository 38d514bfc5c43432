package docstore

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used by tests and local development.
// A single mutex guards every collection, which gives the same
// per-document atomic update semantics tests need to exercise the
// claim race.
type MemoryStore struct {
	mu           sync.Mutex
	collections  map[string][]Document
	pollInterval time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections:  make(map[string][]Document),
		pollInterval: 10 * time.Millisecond,
	}
}

func matches(doc Document, filter Filter) bool {
	for path, want := range filter {
		got, ok := doc.Lookup(path)
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// looseEqual compares values the way a store would after a marshal round
// trip: numeric types are compared by value, everything else deeply.
func looseEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneDoc(doc Document) Document {
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return doc
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return doc
	}
	return Document(m)
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Document
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			out = append(out, cloneDoc(doc))
		}
	}
	return out, nil
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return cloneDoc(doc), nil
		}
	}
	return nil, ErrNoDocuments
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], Document(m))
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, id string, patch Filter) (bool, error) {
	return s.ConditionalUpdate(ctx, collection, id, nil, patch)
}

func (s *MemoryStore) ConditionalUpdate(ctx context.Context, collection string, id string, expected Filter, patch Filter) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range s.collections[collection] {
		if doc.ID() != id {
			continue
		}
		if expected != nil && !matches(doc, expected) {
			return false, nil
		}
		updated := cloneDoc(doc)
		for k, v := range patch {
			updated[k] = normalize(v)
		}
		s.collections[collection][i] = updated
		return true, nil
	}
	return false, nil
}

// normalize runs patch values through bson so stored shapes match what a
// real store returns (structs become maps, times become primitive dates).
func normalize(v any) any {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return v
	}
	return m["v"]
}

func (s *MemoryStore) Subscribe(ctx context.Context, collection string, filter Filter) *Subscription {
	return pollSubscription(ctx, s.pollInterval, func(ctx context.Context) ([]Document, error) {
		return s.Find(ctx, collection, filter)
	})
}
