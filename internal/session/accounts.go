package session

import (
	"context"
	"errors"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/models"
)

// GetRider loads a rider profile by id, password stripped.
func (r *Resolver) GetRider(ctx context.Context, id string) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	doc, err := r.store.FindOne(ctx, docstore.CollUsers, docstore.Filter{"_id": id})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("rider lookup", err)
	}
	var rider models.Rider
	if err := doc.Decode(&rider); err != nil {
		return nil, apperr.Storage("rider decode", err)
	}
	rider.Password = ""
	return &rider, nil
}

// GetMechanic loads a mechanic profile by id, password stripped.
func (r *Resolver) GetMechanic(ctx context.Context, id string) (*models.Mechanic, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	doc, err := r.store.FindOne(ctx, docstore.CollMechanics, docstore.Filter{"_id": id})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("mechanic lookup", err)
	}
	var mech models.Mechanic
	if err := doc.Decode(&mech); err != nil {
		return nil, apperr.Storage("mechanic decode", err)
	}
	mech.Password = ""
	return &mech, nil
}

// ApprovedMechanics lists every mechanic who has cleared the approval
// workflow, passwords stripped.
func (r *Resolver) ApprovedMechanics(ctx context.Context) ([]models.Mechanic, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	docs, err := r.store.Find(ctx, docstore.CollMechanics, docstore.Filter{"status": models.MechanicStatusApproved})
	if err != nil {
		return nil, apperr.Storage("mechanic list", err)
	}
	mechs := make([]models.Mechanic, 0, len(docs))
	for _, doc := range docs {
		var mech models.Mechanic
		if err := doc.Decode(&mech); err != nil {
			return nil, apperr.Storage("mechanic decode", err)
		}
		mech.Password = ""
		mechs = append(mechs, mech)
	}
	return mechs, nil
}
