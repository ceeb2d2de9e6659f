package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

// ChallengeService issues player-to-player challenges and maintains the
// per-target eligibility cache.
//
// Cache semantics:
//   - RefreshStatuses issues exactly one batched call regardless of set size
//     (none for an empty set) and fully replaces the entries of the requested
//     ids; ids outside the request keep their prior values.
//   - A refresh while one is in flight is dropped, not queued.
//   - CanSend/DisplayReason are pure reads defaulting to "challengeable"
//     when no entry exists.
type ChallengeService interface {
	Send(ctx context.Context, req models.SendChallengeRequest) (*models.MatchChallenge, error)
	List(ctx context.Context) ([]models.MatchChallenge, error)
	Accept(ctx context.Context, challengeID, partnerID string) (*models.MatchChallenge, error)
	Reject(ctx context.Context, challengeID string) (*models.MatchChallenge, error)
	Status(ctx context.Context, userID string) (*models.ChallengeStatus, error)
	RefreshStatuses(ctx context.Context, userIDs []string) (map[string]models.ChallengeStatus, error)
	CanSend(userID string) bool
	DisplayReason(userID string) models.ChallengeReason
	InvalidateStatus(userID string)
}

type challengeService struct {
	api api.Client
	log logging.Logger

	mu       sync.Mutex
	entries  map[string]models.ChallengeStatus
	inFlight bool
}

func NewChallengeService(apiClient api.Client, log logging.Logger) ChallengeService {
	return &challengeService{
		api:     apiClient,
		log:     log.With("component", "challenges"),
		entries: make(map[string]models.ChallengeStatus),
	}
}

// Send creates a challenge and invalidates the target's cached status so the
// next refresh reflects the new pending challenge.
func (s *challengeService) Send(ctx context.Context, req models.SendChallengeRequest) (*models.MatchChallenge, error) {
	var ch models.MatchChallenge
	if err := s.api.Do(ctx, http.MethodPost, endpointChallenges, req, &ch); err != nil {
		return nil, err
	}
	s.InvalidateStatus(req.ToUserID)
	return &ch, nil
}

func (s *challengeService) List(ctx context.Context) ([]models.MatchChallenge, error) {
	var list []models.MatchChallenge
	if err := s.api.Do(ctx, http.MethodGet, endpointChallenges, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Accept accepts a challenge; partnerID is required for doubles and empty
// for singles. Both participants' cached statuses are invalidated.
func (s *challengeService) Accept(ctx context.Context, challengeID, partnerID string) (*models.MatchChallenge, error) {
	body := map[string]string{}
	if partnerID != "" {
		body["accepterPartnerId"] = partnerID
	}
	var ch models.MatchChallenge
	if err := s.api.Do(ctx, http.MethodPut, challengeAcceptEndpoint(challengeID), body, &ch); err != nil {
		return nil, err
	}
	s.InvalidateStatus(ch.FromUser.ID)
	s.InvalidateStatus(ch.ToUser.ID)
	return &ch, nil
}

func (s *challengeService) Reject(ctx context.Context, challengeID string) (*models.MatchChallenge, error) {
	var ch models.MatchChallenge
	if err := s.api.Do(ctx, http.MethodPut, challengeRejectEndpoint(challengeID), nil, &ch); err != nil {
		return nil, err
	}
	s.InvalidateStatus(ch.FromUser.ID)
	s.InvalidateStatus(ch.ToUser.ID)
	return &ch, nil
}

// Status fetches eligibility for a single target without touching the cache.
func (s *challengeService) Status(ctx context.Context, userID string) (*models.ChallengeStatus, error) {
	var st models.ChallengeStatus
	if err := s.api.Do(ctx, http.MethodGet, challengeStatusEndpoint(userID), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// RefreshStatuses refreshes the cache for userIDs with one batched call.
// Fetch failures are absorbed: the prior cached values are served instead
// (degraded read per the error-propagation policy).
func (s *challengeService) RefreshStatuses(ctx context.Context, userIDs []string) (map[string]models.ChallengeStatus, error) {
	if len(userIDs) == 0 {
		return map[string]models.ChallengeStatus{}, nil
	}

	s.mu.Lock()
	if s.inFlight {
		// Drop, don't queue: serve whatever is cached for the requested ids.
		result := s.snapshotLocked(userIDs)
		s.mu.Unlock()
		return result, nil
	}
	s.inFlight = true
	s.mu.Unlock()

	var statuses map[string]models.ChallengeStatus
	body := map[string][]string{"userIds": userIDs}
	err := s.api.Do(ctx, http.MethodPost, endpointChallengesBatchStatus, body, &statuses)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		s.log.Warn(ctx, "batch status refresh failed, serving cached entries", "error", err)
		return s.snapshotLocked(userIDs), nil
	}

	// Full replacement for the requested ids: entries the server omitted
	// fall back to the "challengeable" default.
	for _, id := range userIDs {
		delete(s.entries, id)
	}
	for id, st := range statuses {
		s.entries[id] = st
	}

	return s.snapshotLocked(userIDs), nil
}

func (s *challengeService) snapshotLocked(userIDs []string) map[string]models.ChallengeStatus {
	result := make(map[string]models.ChallengeStatus, len(userIDs))
	for _, id := range userIDs {
		if st, ok := s.entries[id]; ok {
			result[id] = st
		}
	}
	return result
}

// CanSend reports whether a challenge may be sent to userID; unknown targets
// default to challengeable.
func (s *challengeService) CanSend(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[userID]
	if !ok {
		return true
	}
	return st.CanChallenge
}

// DisplayReason returns why userID cannot be challenged; ReasonNone when it
// can (or no entry exists).
func (s *challengeService) DisplayReason(userID string) models.ChallengeReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[userID]
	if !ok || st.CanChallenge {
		return models.ReasonNone
	}
	return st.Reason
}

// InvalidateStatus drops the cached entry for userID; the next refresh
// rebuilds it.
func (s *challengeService) InvalidateStatus(userID string) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}
