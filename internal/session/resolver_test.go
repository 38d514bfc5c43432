package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/models"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func seedRider(t *testing.T, store docstore.Store, email, password string) string {
	t.Helper()
	id, err := store.Insert(context.Background(), docstore.CollUsers, models.Rider{
		Name:      "Ana",
		Email:     email,
		Password:  hash(t, password),
		Phone:     "0917",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func seedMechanic(t *testing.T, store docstore.Store, email, password string) string {
	t.Helper()
	id, err := store.Insert(context.Background(), docstore.CollMechanics, models.Mechanic{
		Name:          "Ben",
		Email:         email,
		Password:      hash(t, password),
		BusinessName:  "Ben's Garage",
		LicenseNumber: "L-42",
		Status:        models.MechanicStatusApproved,
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func TestResolveEmptyCredentials(t *testing.T) {
	resolver := NewResolver(docstore.NewMemoryStore(), time.Second)

	for _, tc := range []struct{ email, password string }{
		{"", ""},
		{"   ", "pw"},
		{"a@b.c", "   "},
	} {
		_, err := resolver.Resolve(context.Background(), tc.email, tc.password)
		assert.ErrorIs(t, err, apperr.ErrEmptyCredentials)
	}
}

func TestResolveNoMatch(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedRider(t, store, "ana@example.com", "correct")
	resolver := NewResolver(store, time.Second)

	_, err := resolver.Resolve(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

// Wrong password and unknown account must be indistinguishable.
func TestResolveWrongPassword(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedRider(t, store, "ana@example.com", "correct")
	resolver := NewResolver(store, time.Second)

	_, err := resolver.Resolve(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestResolveRider(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := seedRider(t, store, "ana@example.com", "correct")
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.Resolve(context.Background(), " ana@example.com ", "correct")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRider, acct.Role)
	assert.Equal(t, id, acct.ID)
	require.NotNil(t, acct.Rider)
	assert.Nil(t, acct.Mechanic)
	assert.Empty(t, acct.Rider.Password, "password hash must never leave the resolver")
}

func TestResolveMechanic(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := seedMechanic(t, store, "ben@example.com", "garage")
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.Resolve(context.Background(), "ben@example.com", "garage")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMechanic, acct.Role)
	assert.Equal(t, id, acct.ID)
	require.NotNil(t, acct.Mechanic)
	assert.Empty(t, acct.Mechanic.Password)
}

// The collection-priority invariant: a colliding email across both
// collections resolves to the rider, never the mechanic.
func TestResolveRiderWinsCollision(t *testing.T) {
	store := docstore.NewMemoryStore()
	riderID := seedRider(t, store, "both@example.com", "shared")
	mechID := seedMechanic(t, store, "both@example.com", "shared")
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.Resolve(context.Background(), "both@example.com", "shared")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRider, acct.Role)
	assert.Equal(t, riderID, acct.ID)
	assert.NotEqual(t, mechID, acct.ID)
}

// With differing passwords, a rider-email miss still falls through to the
// mechanic collection.
func TestResolveFallsThroughToMechanic(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedRider(t, store, "both@example.com", "rider-pw")
	mechID := seedMechanic(t, store, "both@example.com", "mech-pw")
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.Resolve(context.Background(), "both@example.com", "mech-pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMechanic, acct.Role)
	assert.Equal(t, mechID, acct.ID)
}

func TestResolveDuplicateEmailsFirstWins(t *testing.T) {
	store := docstore.NewMemoryStore()
	first := seedRider(t, store, "dup@example.com", "pw")
	seedRider(t, store, "dup@example.com", "pw")
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.Resolve(context.Background(), "dup@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, first, acct.ID)
}

func TestStateLoginLogout(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedRider(t, store, "ana@example.com", "correct")
	state := NewState(NewResolver(store, time.Second))

	_, err := state.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, state.Err(), apperr.ErrInvalidCredentials)
	assert.Nil(t, state.Current())

	acct, err := state.Login(context.Background(), "ana@example.com", "correct")
	require.NoError(t, err)
	assert.NoError(t, state.Err(), "a successful login clears the cached error")
	assert.Equal(t, acct, state.Current())

	state.Logout()
	assert.Nil(t, state.Current())
	assert.NoError(t, state.Err())
}

func TestRegisterRiderAndLogin(t *testing.T) {
	store := docstore.NewMemoryStore()
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.RegisterRider(context.Background(), RiderSignup{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret",
		Phone:    "0917",
	})
	require.NoError(t, err)
	assert.Empty(t, acct.Rider.Password)

	resolved, err := resolver.Resolve(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, resolved.ID)
}

func TestRegisterRejectsDuplicateEmailAcrossCollections(t *testing.T) {
	store := docstore.NewMemoryStore()
	resolver := NewResolver(store, time.Second)
	seedMechanic(t, store, "taken@example.com", "pw")

	_, err := resolver.RegisterRider(context.Background(), RiderSignup{
		Name:     "Ana",
		Email:    "taken@example.com",
		Password: "secret",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestRegisterMechanicStartsPending(t *testing.T) {
	store := docstore.NewMemoryStore()
	resolver := NewResolver(store, time.Second)

	acct, err := resolver.RegisterMechanic(context.Background(), MechanicSignup{
		Name:          "Ben",
		Email:         "ben@example.com",
		Password:      "garage",
		BusinessName:  "Ben's Garage",
		LicenseNumber: "L-42",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MechanicStatusPending, acct.Mechanic.Status)
}

func TestRegisterMechanicRequiresBusinessFields(t *testing.T) {
	resolver := NewResolver(docstore.NewMemoryStore(), time.Second)

	_, err := resolver.RegisterMechanic(context.Background(), MechanicSignup{
		Name:     "Ben",
		Email:    "ben@example.com",
		Password: "garage",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}
