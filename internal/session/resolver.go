// Package session resolves submitted credentials against the two disjoint
// account collections and materializes the authenticated session consumed
// by the role router.
package session

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/models"
)

// Account is the resolved identity: role plus exactly one profile variant.
// The password hash is stripped before an Account leaves this package.
type Account struct {
	ID       string
	Role     models.Role
	Rider    *models.Rider
	Mechanic *models.Mechanic
}

// Name returns the display name of whichever variant is set.
func (a *Account) Name() string {
	switch a.Role {
	case models.RoleRider:
		return a.Rider.Name
	case models.RoleMechanic:
		return a.Mechanic.Name
	}
	return ""
}

// Resolver performs credential resolution against the document store.
type Resolver struct {
	store    docstore.Store
	deadline time.Duration
}

func NewResolver(store docstore.Store, deadline time.Duration) *Resolver {
	if deadline <= 0 {
		deadline = 10 * time.Second
	}
	return &Resolver{store: store, deadline: deadline}
}

// Resolve checks the rider collection first and the mechanic collection
// only when no rider matched. The ordering is load-bearing: an email that
// collides across both collections resolves to the rider account.
//
// Wrong-password and no-such-account both come back as InvalidCredentials;
// the caller learns nothing about which collection, if any, held the email.
func (r *Resolver) Resolve(ctx context.Context, email, password string) (*Account, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, apperr.ErrEmptyCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	// Priority-ordered typed lookups; the first hit wins.
	if acct, err := r.resolveRider(ctx, email, password); err != nil {
		return nil, err
	} else if acct != nil {
		return acct, nil
	}
	if acct, err := r.resolveMechanic(ctx, email, password); err != nil {
		return nil, err
	} else if acct != nil {
		return acct, nil
	}
	return nil, apperr.ErrInvalidCredentials
}

func (r *Resolver) resolveRider(ctx context.Context, email, password string) (*Account, error) {
	docs, err := r.store.Find(ctx, docstore.CollUsers, docstore.Filter{"email": email})
	if err != nil {
		return nil, apperr.Storage("rider lookup", err)
	}
	// Duplicate emails are not prevented by the data layer; we take the
	// first document in returned order whose hash verifies.
	for _, doc := range docs {
		var rider models.Rider
		if err := doc.Decode(&rider); err != nil {
			return nil, apperr.Storage("rider decode", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(rider.Password), []byte(password)) == nil {
			rider.Password = ""
			return &Account{ID: rider.ID, Role: models.RoleRider, Rider: &rider}, nil
		}
	}
	return nil, nil
}

func (r *Resolver) resolveMechanic(ctx context.Context, email, password string) (*Account, error) {
	docs, err := r.store.Find(ctx, docstore.CollMechanics, docstore.Filter{"email": email})
	if err != nil {
		return nil, apperr.Storage("mechanic lookup", err)
	}
	for _, doc := range docs {
		var mech models.Mechanic
		if err := doc.Decode(&mech); err != nil {
			return nil, apperr.Storage("mechanic decode", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(mech.Password), []byte(password)) == nil {
			mech.Password = ""
			return &Account{ID: mech.ID, Role: models.RoleMechanic, Mechanic: &mech}, nil
		}
	}
	return nil, nil
}

// State is the client-held session: the current account plus the last
// resolution error, for embedding in a client that wants the resolver to
// own this bookkeeping. A successful login clears any cached error; the
// plaintext password is never retained past the Resolve call.
type State struct {
	resolver *Resolver
	account  *Account
	lastErr  error
}

func NewState(resolver *Resolver) *State {
	return &State{resolver: resolver}
}

func (s *State) Login(ctx context.Context, email, password string) (*Account, error) {
	acct, err := s.resolver.Resolve(ctx, email, password)
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.account = acct
	s.lastErr = nil
	return acct, nil
}

// Current returns the resolved account, or nil when logged out.
func (s *State) Current() *Account { return s.account }

// Err returns the last resolution error, cleared on success or logout.
func (s *State) Err() error { return s.lastErr }

// Logout clears the session and any cached error. It cannot fail.
func (s *State) Logout() {
	s.account = nil
	s.lastErr = nil
}
