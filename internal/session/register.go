package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/models"
)

// RiderSignup is the input for creating a rider account.
type RiderSignup struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// MechanicSignup is the input for creating a mechanic account. New
// mechanics start in the pending approval state.
type MechanicSignup struct {
	Name          string
	Email         string
	Password      string
	Phone         string
	BusinessName  string
	LicenseNumber string
	Location      *models.Location
}

// RegisterRider hashes the password and inserts a rider document. The
// email must not already exist in either account collection.
func (r *Resolver) RegisterRider(ctx context.Context, in RiderSignup) (*Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	email := strings.TrimSpace(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperr.New(apperr.KindValidationFailed, "name, email and password are required")
	}
	if err := r.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, apperr.Storage("password hash", err)
	}

	rider := models.Rider{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  hash,
		Phone:     strings.TrimSpace(in.Phone),
		Vehicles:  []models.Vehicle{},
		CreatedAt: time.Now().UTC(),
	}
	id, err := r.store.Insert(ctx, docstore.CollUsers, rider)
	if err != nil {
		return nil, apperr.Storage("rider insert", err)
	}
	rider.ID = id
	rider.Password = ""
	return &Account{ID: id, Role: models.RoleRider, Rider: &rider}, nil
}

// RegisterMechanic hashes the password and inserts a mechanic document
// with approval status pending.
func (r *Resolver) RegisterMechanic(ctx context.Context, in MechanicSignup) (*Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	email := strings.TrimSpace(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperr.New(apperr.KindValidationFailed, "name, email and password are required")
	}
	if strings.TrimSpace(in.BusinessName) == "" || strings.TrimSpace(in.LicenseNumber) == "" {
		return nil, apperr.New(apperr.KindValidationFailed, "business_name and license_number are required for mechanics")
	}
	if err := r.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, apperr.Storage("password hash", err)
	}

	mech := models.Mechanic{
		Name:             strings.TrimSpace(in.Name),
		Email:            email,
		Password:         hash,
		Phone:            strings.TrimSpace(in.Phone),
		BusinessName:     strings.TrimSpace(in.BusinessName),
		LicenseNumber:    strings.TrimSpace(in.LicenseNumber),
		VerificationDocs: []string{},
		Status:           models.MechanicStatusPending,
		Location:         in.Location,
		CreatedAt:        time.Now().UTC(),
	}
	id, err := r.store.Insert(ctx, docstore.CollMechanics, mech)
	if err != nil {
		return nil, apperr.Storage("mechanic insert", err)
	}
	mech.ID = id
	mech.Password = ""
	return &Account{ID: id, Role: models.RoleMechanic, Mechanic: &mech}, nil
}

// ensureEmailFree checks both collections so a new signup cannot create
// the cross-collection collision the resolver would silently break in
// favour of the rider.
func (r *Resolver) ensureEmailFree(ctx context.Context, email string) error {
	for _, coll := range []string{docstore.CollUsers, docstore.CollMechanics} {
		_, err := r.store.FindOne(ctx, coll, docstore.Filter{"email": email})
		if err == nil {
			return apperr.New(apperr.KindValidationFailed, "email already in use")
		}
		if !errors.Is(err, docstore.ErrNoDocuments) {
			return apperr.Storage("email lookup", err)
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
