// Package lifecycle owns the breakdown-request state machine:
//
//	pending → claimed → approved → done
//	pending/claimed → cancelled
//
// The claim transition is the one genuinely concurrent write in the
// system and is implemented as a conditional update so that of two
// mechanics racing for the same pending request exactly one wins.
package lifecycle

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/models"
)

// Manager drives breakdown requests through their lifecycle. All state
// lives in the document store; the manager itself is stateless and safe
// for concurrent use.
type Manager struct {
	store    docstore.Store
	deadline time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

func NewManager(store docstore.Store, deadline time.Duration, log *logrus.Logger) *Manager {
	if deadline <= 0 {
		deadline = 10 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{store: store, deadline: deadline, log: log, now: time.Now}
}

// CreateInput carries the rider-owned fields of a new request.
type CreateInput struct {
	UserID    string
	UserName  string
	PhoneNum  string
	Location  *models.Location
	Address   string
	VehicleID string
	Vehicle   *models.Vehicle
	Reason    string
}

// Create persists a new request in the pending state.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.BreakdownRequest, error) {
	if in.UserID == "" || in.Reason == "" || in.Location == nil {
		return nil, apperr.New(apperr.KindValidationFailed, "reason, location and user are required")
	}
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	req := models.BreakdownRequest{
		UserID:    in.UserID,
		UserName:  in.UserName,
		PhoneNum:  in.PhoneNum,
		Location:  *in.Location,
		Address:   in.Address,
		VehicleID: in.VehicleID,
		Vehicle:   in.Vehicle,
		Reason:    in.Reason,
		Timestamp: m.now().UTC(),
		Status:    models.StatusPending,
	}
	id, err := m.store.Insert(ctx, docstore.CollRequests, req)
	if err != nil {
		return nil, apperr.Storage("request insert", err)
	}
	req.ID = id
	m.log.WithFields(logrus.Fields{"request_id": id, "user_id": in.UserID}).Info("breakdown request created")
	return &req, nil
}

// Get loads a request by id.
func (m *Manager) Get(ctx context.Context, id string) (*models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()
	return m.get(ctx, id)
}

func (m *Manager) get(ctx context.Context, id string) (*models.BreakdownRequest, error) {
	doc, err := m.store.FindOne(ctx, docstore.CollRequests, docstore.Filter{"_id": id})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("request lookup", err)
	}
	var req models.BreakdownRequest
	if err := doc.Decode(&req); err != nil {
		return nil, apperr.Storage("request decode", err)
	}
	return &req, nil
}

// Claim transitions pending → claimed for the given mechanic. The update
// only succeeds if the stored status is still pending at write time; a
// competing mechanic who lost the race gets AlreadyClaimed, never a
// silent overwrite.
func (m *Manager) Claim(ctx context.Context, id, mechanicID, mechanicName string) (*models.BreakdownRequest, error) {
	if mechanicID == "" {
		return nil, apperr.New(apperr.KindValidationFailed, "mechanic id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	ok, err := m.store.ConditionalUpdate(ctx, docstore.CollRequests, id,
		docstore.Filter{"status": string(models.StatusPending)},
		docstore.Filter{
			"status":    string(models.StatusClaimed),
			"claimedBy": models.ClaimedBy{ID: mechanicID, Name: mechanicName},
		})
	if err != nil {
		return nil, apperr.Storage("request claim", err)
	}
	if !ok {
		req, err := m.get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch req.Status {
		case models.StatusClaimed, models.StatusApproved:
			return nil, apperr.ErrAlreadyClaimed
		default:
			return nil, apperr.Newf(apperr.KindInvalidTransition, "request is %s and can no longer be claimed", req.Status)
		}
	}
	m.log.WithFields(logrus.Fields{"request_id": id, "mechanic_id": mechanicID}).Info("breakdown request claimed")
	return m.get(ctx, id)
}

// Approve transitions claimed → approved. Only the owning rider may
// approve: the claim already records the mechanic's commitment, so
// approval models the rider accepting the claiming mechanic.
func (m *Manager) Approve(ctx context.Context, id, callerID string) (*models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	req, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != callerID {
		return nil, apperr.New(apperr.KindInvalidTransition, "only the requesting rider can approve")
	}
	if req.Status != models.StatusClaimed {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot approve a %s request", req.Status)
	}

	ok, err := m.store.ConditionalUpdate(ctx, docstore.CollRequests, id,
		docstore.Filter{"status": string(models.StatusClaimed)},
		docstore.Filter{"status": string(models.StatusApproved)})
	if err != nil {
		return nil, apperr.Storage("request approve", err)
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "request changed state before approval")
	}
	if req.ClaimedBy != nil {
		m.notifyMechanic(ctx, req.ClaimedBy.ID, "Request approved",
			req.UserName+" approved your claim; you can head out.")
	}
	return m.get(ctx, id)
}

// Cancel moves a pending or claimed request to the cancelled terminal
// state. Only the owning rider or the claiming mechanic may cancel.
func (m *Manager) Cancel(ctx context.Context, id, callerID string) (*models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	req, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := callerID == req.UserID || (req.ClaimedBy != nil && callerID == req.ClaimedBy.ID)
	if !allowed {
		return nil, apperr.New(apperr.KindInvalidTransition, "only the rider or the claiming mechanic can cancel")
	}
	if req.Status != models.StatusPending && req.Status != models.StatusClaimed {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot cancel a %s request", req.Status)
	}

	ok, err := m.store.ConditionalUpdate(ctx, docstore.CollRequests, id,
		docstore.Filter{"status": string(req.Status)},
		docstore.Filter{
			"status":      string(models.StatusCancelled),
			"cancelledBy": callerID,
			"cancelledAt": m.now().UTC(),
		})
	if err != nil {
		return nil, apperr.Storage("request cancel", err)
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "request changed state before cancellation")
	}
	if req.ClaimedBy != nil && callerID == req.UserID {
		m.notifyMechanic(ctx, req.ClaimedBy.ID, "Request cancelled",
			req.UserName+" cancelled the breakdown request you claimed.")
	}
	m.log.WithFields(logrus.Fields{"request_id": id, "cancelled_by": callerID}).Info("breakdown request cancelled")
	return m.get(ctx, id)
}

// SubmitMechanicFeedback closes out an approved request: the claiming
// mechanic records notes and evidence photos and the request goes done.
func (m *Manager) SubmitMechanicFeedback(ctx context.Context, id, mechanicID, notes string, photos []string) (*models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	req, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClaimedBy == nil || req.ClaimedBy.ID != mechanicID {
		return nil, apperr.New(apperr.KindInvalidTransition, "only the claiming mechanic can submit feedback")
	}
	if req.Status != models.StatusApproved {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot submit mechanic feedback on a %s request", req.Status)
	}

	fb := models.MechanicFeedback{Notes: notes, Photos: photos, SubmittedAt: m.now().UTC()}
	ok, err := m.store.ConditionalUpdate(ctx, docstore.CollRequests, id,
		docstore.Filter{"status": string(models.StatusApproved)},
		docstore.Filter{
			"status":            string(models.StatusDone),
			"mechanicFeedback":  fb,
			"mechanicConfirmed": true,
		})
	if err != nil {
		return nil, apperr.Storage("mechanic feedback", err)
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "request changed state before feedback")
	}
	return m.get(ctx, id)
}

// SubmitUserFeedback records the rider's rating. Allowed in any state
// except cancelled; the status is left unchanged, but on an approved or
// done request the submission doubles as the rider's confirmation. auto
// marks ratings the client submitted on the rider's behalf after the
// confirmation window lapsed without a response.
func (m *Manager) SubmitUserFeedback(ctx context.Context, id, riderID string, rating int, text string, auto bool) (*models.BreakdownRequest, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.New(apperr.KindValidationFailed, "rating must be between 1 and 5")
	}
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	req, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != riderID {
		return nil, apperr.New(apperr.KindInvalidTransition, "only the requesting rider can submit feedback")
	}
	if req.Status == models.StatusCancelled {
		return nil, apperr.New(apperr.KindInvalidTransition, "cannot rate a cancelled request")
	}

	now := m.now().UTC()
	fb := models.UserFeedback{Rating: rating, Text: text, SubmittedAt: now, AutoConfirmed: auto}
	patch := docstore.Filter{"userFeedback": fb}
	if req.Status == models.StatusApproved || req.Status == models.StatusDone {
		patch["userConfirmed"] = true
		patch["userConfirmedAt"] = now
	}
	ok, err := m.store.Update(ctx, docstore.CollRequests, id, patch)
	if err != nil {
		return nil, apperr.Storage("user feedback", err)
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}

	// Mirror the rating into mechanic_feedback so the rating view reads
	// one collection. Upsert keyed on the request: a re-submission
	// overwrites the previous entry, matching the single userFeedback
	// the request document holds. Best effort: a failed mirror is
	// logged, not fatal.
	if req.ClaimedBy != nil {
		if err := m.mirrorUserFeedback(ctx, req.ClaimedBy.ID, id, riderID, rating, text, now); err != nil {
			m.log.WithError(err).Warn("failed to mirror user feedback")
		}
	}
	return m.get(ctx, id)
}

func (m *Manager) mirrorUserFeedback(ctx context.Context, mechanicID, requestID, riderID string, rating int, text string, now time.Time) error {
	existing, err := m.store.FindOne(ctx, docstore.CollFeedback, docstore.Filter{"requestId": requestID})
	if err == nil {
		_, err := m.store.Update(ctx, docstore.CollFeedback, existing.ID(), docstore.Filter{
			"mechanicId":  mechanicID,
			"rating":      rating,
			"text":        text,
			"submittedAt": now,
		})
		return err
	}
	if !errors.Is(err, docstore.ErrNoDocuments) {
		return err
	}
	entry := models.FeedbackEntry{
		MechanicID:  mechanicID,
		RequestID:   requestID,
		RiderID:     riderID,
		Rating:      rating,
		Text:        text,
		SubmittedAt: now,
	}
	_, err = m.store.Insert(ctx, docstore.CollFeedback, entry)
	return err
}

// AverageRating is the arithmetic mean of every rating the given mechanic
// has received. An empty set averages to 0, not NaN.
func (m *Manager) AverageRating(ctx context.Context, mechanicID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()

	docs, err := m.store.Find(ctx, docstore.CollFeedback, docstore.Filter{"mechanicId": mechanicID})
	if err != nil {
		return 0, apperr.Storage("feedback lookup", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	sum := 0
	for _, doc := range docs {
		var entry models.FeedbackEntry
		if err := doc.Decode(&entry); err != nil {
			return 0, apperr.Storage("feedback decode", err)
		}
		sum += entry.Rating
	}
	return float64(sum) / float64(len(docs)), nil
}

// PendingRequests returns the open request pool, most recent first. The
// store delivers snapshots unordered, so ordering is re-derived here.
func (m *Manager) PendingRequests(ctx context.Context) ([]models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()
	return m.findSorted(ctx, docstore.Filter{"status": string(models.StatusPending)})
}

// RequestsForRider returns every request the rider has created, most
// recent first.
func (m *Manager) RequestsForRider(ctx context.Context, riderID string) ([]models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()
	return m.findSorted(ctx, docstore.Filter{"userId": riderID})
}

// RequestsForMechanic returns every request the mechanic has claimed,
// most recent first.
func (m *Manager) RequestsForMechanic(ctx context.Context, mechanicID string) ([]models.BreakdownRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, m.deadline)
	defer cancel()
	return m.findSorted(ctx, docstore.Filter{"claimedBy.id": mechanicID})
}

func (m *Manager) findSorted(ctx context.Context, filter docstore.Filter) ([]models.BreakdownRequest, error) {
	docs, err := m.store.Find(ctx, docstore.CollRequests, filter)
	if err != nil {
		return nil, apperr.Storage("request list", err)
	}
	reqs := make([]models.BreakdownRequest, 0, len(docs))
	for _, doc := range docs {
		var req models.BreakdownRequest
		if err := doc.Decode(&req); err != nil {
			return nil, apperr.Storage("request decode", err)
		}
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Timestamp.After(reqs[j].Timestamp) })
	return reqs, nil
}

// WatchPending subscribes to the pending pool. Snapshots arrive unordered
// and eventually consistent; consumers sort with SortByNewest.
func (m *Manager) WatchPending(ctx context.Context) *docstore.Subscription {
	return m.store.Subscribe(ctx, docstore.CollRequests, docstore.Filter{"status": string(models.StatusPending)})
}

// SortByNewest orders a decoded snapshot most recent first.
func SortByNewest(reqs []models.BreakdownRequest) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Timestamp.After(reqs[j].Timestamp) })
}

func (m *Manager) notifyMechanic(ctx context.Context, mechanicID, title, body string) {
	note := models.SystemNotification{
		MechanicID: mechanicID,
		Title:      title,
		Body:       body,
		CreatedAt:  m.now().UTC(),
	}
	if _, err := m.store.Insert(ctx, docstore.CollNotifications, note); err != nil {
		m.log.WithError(err).WithField("mechanic_id", mechanicID).Warn("failed to insert notification")
	}
}
