package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureDoc struct {
	ID     string `bson:"_id,omitempty"`
	Name   string `bson:"name"`
	Status string `bson:"status"`
	Owner  struct {
		ID string `bson:"id"`
	} `bson:"owner"`
}

func TestInsertAssignsID(t *testing.T) {
	store := NewMemoryStore()

	id, err := store.Insert(context.Background(), "things", fixtureDoc{Name: "a", Status: "pending"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	doc, err := store.FindOne(context.Background(), "things", Filter{"_id": id})
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())
}

func TestFindOneNoMatch(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.FindOne(context.Background(), "things", Filter{"name": "missing"})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestFindOneReturnsFirstInOrder(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Insert(context.Background(), "things", fixtureDoc{Name: "dup"})
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), "things", fixtureDoc{Name: "dup"})
	require.NoError(t, err)

	doc, err := store.FindOne(context.Background(), "things", Filter{"name": "dup"})
	require.NoError(t, err)
	assert.Equal(t, first, doc.ID())
}

func TestDottedFilterPath(t *testing.T) {
	store := NewMemoryStore()

	owned := fixtureDoc{Name: "mine", Status: "claimed"}
	owned.Owner.ID = "mech-1"
	_, err := store.Insert(context.Background(), "things", owned)
	require.NoError(t, err)

	docs, err := store.Find(context.Background(), "things", Filter{"owner.id": "mech-1"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = store.Find(context.Background(), "things", Filter{"owner.id": "mech-2"})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestConditionalUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, "things", fixtureDoc{Name: "a", Status: "pending"})
	require.NoError(t, err)

	ok, err := store.ConditionalUpdate(ctx, "things", id,
		Filter{"status": "pending"}, Filter{"status": "claimed"})
	require.NoError(t, err)
	assert.True(t, ok)

	// Expected values no longer hold: no-op, not an overwrite.
	ok, err = store.ConditionalUpdate(ctx, "things", id,
		Filter{"status": "pending"}, Filter{"status": "claimed"})
	require.NoError(t, err)
	assert.False(t, ok)

	doc, err := store.FindOne(ctx, "things", Filter{"_id": id})
	require.NoError(t, err)
	status, _ := doc.Lookup("status")
	assert.Equal(t, "claimed", status)
}

func TestConditionalUpdateUnknownID(t *testing.T) {
	store := NewMemoryStore()

	ok, err := store.ConditionalUpdate(context.Background(), "things", "nope",
		Filter{"status": "pending"}, Filter{"status": "claimed"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatePatchesFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, "things", fixtureDoc{Name: "a", Status: "pending"})
	require.NoError(t, err)

	ok, err := store.Update(ctx, "things", id, Filter{"name": "b"})
	require.NoError(t, err)
	assert.True(t, ok)

	doc, err := store.FindOne(ctx, "things", Filter{"_id": id})
	require.NoError(t, err)
	var got fixtureDoc
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, "pending", got.Status)
}

func TestFindReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, "things", fixtureDoc{Name: "a", Status: "pending"})
	require.NoError(t, err)

	doc, err := store.FindOne(ctx, "things", Filter{"_id": id})
	require.NoError(t, err)
	doc["status"] = "mutated"

	again, err := store.FindOne(ctx, "things", Filter{"_id": id})
	require.NoError(t, err)
	status, _ := again.Lookup("status")
	assert.Equal(t, "pending", status)
}

func TestSubscribeDeliversSnapshots(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := store.Subscribe(ctx, "things", Filter{"status": "pending"})
	defer sub.Close()

	// Initial snapshot is empty.
	select {
	case docs := <-sub.C:
		assert.Empty(t, docs)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err := store.Insert(ctx, "things", fixtureDoc{Name: "a", Status: "pending"})
	require.NoError(t, err)

	deadline := time.After(time.Second)
	for {
		select {
		case docs := <-sub.C:
			if len(docs) == 1 {
				return
			}
		case <-deadline:
			t.Fatal("snapshot never reflected the insert")
		}
	}
}
