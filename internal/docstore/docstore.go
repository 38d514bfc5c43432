package docstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNoDocuments is returned by FindOne when nothing matches the filter.
var ErrNoDocuments = errors.New("docstore: no documents in result")

// Document is a raw stored document. Decode into a typed model with Decode.
type Document bson.M

// Filter is a flat equality filter. Keys may use dotted paths to address
// nested fields ("claimedBy.id").
type Filter map[string]any

// Store is the document-collection contract the service layer runs on.
// There are two implementations: Mongo for production and Memory for tests.
// All calls honour ctx deadlines.
type Store interface {
	// Find returns every document matching filter, in no particular order.
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)

	// FindOne returns the first matching document in returned order, or
	// ErrNoDocuments. "First in returned order" is deliberate: duplicate
	// lookup keys resolve deterministically to whichever document the
	// store yields first.
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)

	// Insert stores doc and returns its id. A zero-value id field on doc is
	// assigned by the store.
	Insert(ctx context.Context, collection string, doc any) (string, error)

	// Update patches the fields in patch on the document with the given id.
	// Returns false when no document has that id.
	Update(ctx context.Context, collection string, id string, patch Filter) (bool, error)

	// ConditionalUpdate patches the document only if every field in expected
	// still holds at write time. Returns true iff the patch was applied.
	// This is the compare-and-set primitive that makes first-claim-wins safe.
	ConditionalUpdate(ctx context.Context, collection string, id string, expected Filter, patch Filter) (bool, error)

	// Subscribe delivers repeated full snapshots of the documents matching
	// filter. Snapshots are unordered and eventually consistent; consumers
	// re-sort when order matters. Cancel ctx or call Close to stop.
	Subscribe(ctx context.Context, collection string, filter Filter) *Subscription
}

// Decode unmarshals the raw document into out via its bson tags.
func (d Document) Decode(out any) error {
	raw, err := bson.Marshal(bson.M(d))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// ID returns the document id, tolerating both string ids and stringers.
func (d Document) ID() string {
	if v, ok := d["_id"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Lookup resolves a possibly dotted path against the document.
func (d Document) Lookup(path string) (any, bool) {
	var cur any = bson.M(d)
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case bson.M:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case Document:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// Subscription is a polled snapshot stream. Each element on C is the full
// matching set at poll time; no incremental diffs are delivered.
type Subscription struct {
	C      <-chan []Document
	cancel context.CancelFunc
}

// Close stops the subscription. Safe to call more than once.
func (s *Subscription) Close() { s.cancel() }

// pollSubscription runs find on a ticker and pushes snapshots until ctx is
// done. Slow consumers skip snapshots rather than blocking the poller.
func pollSubscription(ctx context.Context, interval time.Duration, find func(context.Context) ([]Document, error)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan []Document, 1)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		deliver := func() {
			docs, err := find(ctx)
			if err != nil {
				return // transient; next tick retries
			}
			select {
			case ch <- docs:
			default:
				// drop if the consumer has not drained the last snapshot
			}
		}

		deliver()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deliver()
			}
		}
	}()

	return &Subscription{C: ch, cancel: cancel}
}
