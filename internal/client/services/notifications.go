package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/realtime"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
	"github.com/google/uuid"
)

// AcceptOutcome tells the caller what BeginAccept did.
type AcceptOutcome int

const (
	// AcceptCompleted means the challenge was accepted immediately (singles).
	AcceptCompleted AcceptOutcome = iota
	// AcceptNeedsPartner means a doubles partner must be chosen before the
	// accept can be issued; call ConfirmPartner or CancelAccept next.
	AcceptNeedsPartner
)

// PendingAccept is the in-progress doubles accept, parked between
// BeginAccept and ConfirmPartner/CancelAccept.
type PendingAccept struct {
	NotificationID string
	ChallengeID    string
}

// Accepter is the slice of the challenge service the feed needs to accept
// challenges from notifications.
type Accepter interface {
	Accept(ctx context.Context, challengeID, partnerID string) (*models.MatchChallenge, error)
}

// NotificationService keeps the local read-through copy of the server-owned
// notification feed in sync.
//
// Sync semantics:
//   - The server list is authoritative; the local list is fully replaced on
//     every successful fetch.
//   - Fetch failures are absorbed: the cached list is served unchanged.
//   - Push events and mark-read acknowledgements trigger a refetch; triggers
//     arriving while a fetch is running coalesce into one follow-up fetch.
type NotificationService interface {
	Fetch(ctx context.Context) ([]models.Notification, error)
	Notifications() []models.Notification
	UnreadCount() int
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context) error

	BeginAccept(ctx context.Context, notificationID string) (AcceptOutcome, error)
	ConfirmPartner(ctx context.Context, partnerID string) error
	CancelAccept()
	Pending() *PendingAccept

	Start(ctx context.Context, ch *realtime.Channel) func()
	Subscribe(fn func(notifications []models.Notification)) func()
}

type acceptPhase int

const (
	acceptIdle acceptPhase = iota
	acceptAwaitingPartner
)

type notificationService struct {
	api      api.Client
	accepter Accepter
	log      logging.Logger

	mu            sync.Mutex
	list          []models.Notification
	fetchInFlight bool
	fetchPending  bool
	phase         acceptPhase
	pending       *PendingAccept
	subs          map[uuid.UUID]func([]models.Notification)
}

func NewNotificationService(apiClient api.Client, accepter Accepter, log logging.Logger) NotificationService {
	return &notificationService{
		api:      apiClient,
		accepter: accepter,
		log:      log.With("component", "notifications"),
		subs:     make(map[uuid.UUID]func([]models.Notification)),
	}
}

// Fetch replaces the local list with the server's. On failure the cached list
// is returned unchanged with a nil error; the feed degrades, it does not
// break.
func (s *notificationService) Fetch(ctx context.Context) ([]models.Notification, error) {
	s.mu.Lock()
	if s.fetchInFlight {
		s.fetchPending = true
		list := s.list
		s.mu.Unlock()
		return list, nil
	}
	s.fetchInFlight = true
	s.mu.Unlock()

	for {
		var fetched []models.Notification
		err := s.api.Do(ctx, http.MethodGet, endpointNotifications, nil, &fetched)

		s.mu.Lock()
		if err != nil {
			s.fetchInFlight = false
			s.fetchPending = false
			list := s.list
			s.mu.Unlock()
			s.log.Warn(ctx, "notification fetch failed, serving cached list", "error", err)
			return list, nil
		}

		s.list = fetched
		if s.fetchPending {
			// A trigger arrived mid-fetch; run exactly one follow-up.
			s.fetchPending = false
			s.mu.Unlock()
			s.notify(fetched)
			continue
		}
		s.fetchInFlight = false
		s.mu.Unlock()

		s.notify(fetched)
		return fetched, nil
	}
}

func (s *notificationService) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

func (s *notificationService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, nt := range s.list {
		if !nt.Read {
			n++
		}
	}
	return n
}

// MarkRead acknowledges one notification, then refetches so the local list
// reflects the server's state.
func (s *notificationService) MarkRead(ctx context.Context, notificationID string) error {
	if err := s.api.Do(ctx, http.MethodPut, notificationReadEndpoint(notificationID), nil, nil); err != nil {
		return err
	}
	_, _ = s.Fetch(ctx)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	if err := s.api.Do(ctx, http.MethodPut, endpointNotificationsReadAll, nil, nil); err != nil {
		return err
	}
	_, _ = s.Fetch(ctx)
	return nil
}

// BeginAccept starts accepting the challenge behind notificationID. Singles
// challenges are accepted immediately; doubles park a pending accept and
// report AcceptNeedsPartner.
func (s *notificationService) BeginAccept(ctx context.Context, notificationID string) (AcceptOutcome, error) {
	s.mu.Lock()
	var target *models.Notification
	for i := range s.list {
		if s.list[i].ID == notificationID {
			target = &s.list[i]
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("notification %s not found", notificationID)
	}
	if target.Type != models.NotificationChallengeReceived || target.ChallengeDetails == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("notification %s is not an acceptable challenge", notificationID)
	}
	if s.phase == acceptAwaitingPartner {
		s.mu.Unlock()
		return 0, fmt.Errorf("another accept is awaiting a partner choice")
	}

	challengeID := target.RelatedID
	isSingles := target.ChallengeDetails.IsSingles

	if !isSingles {
		s.phase = acceptAwaitingPartner
		s.pending = &PendingAccept{NotificationID: notificationID, ChallengeID: challengeID}
		s.mu.Unlock()
		return AcceptNeedsPartner, nil
	}
	s.mu.Unlock()

	if _, err := s.accepter.Accept(ctx, challengeID, ""); err != nil {
		return 0, err
	}
	_ = s.MarkRead(ctx, notificationID)
	return AcceptCompleted, nil
}

// ConfirmPartner completes a parked doubles accept. The pending state is
// consumed before the accept call goes out, so the accept fires at most once
// no matter how many confirmations race.
func (s *notificationService) ConfirmPartner(ctx context.Context, partnerID string) error {
	s.mu.Lock()
	if s.phase != acceptAwaitingPartner || s.pending == nil {
		s.mu.Unlock()
		return fmt.Errorf("no accept awaiting a partner choice")
	}
	pending := *s.pending
	s.phase = acceptIdle
	s.pending = nil
	s.mu.Unlock()

	if _, err := s.accepter.Accept(ctx, pending.ChallengeID, partnerID); err != nil {
		return err
	}
	_ = s.MarkRead(ctx, pending.NotificationID)
	return nil
}

// CancelAccept abandons a parked doubles accept; safe to call when idle.
func (s *notificationService) CancelAccept() {
	s.mu.Lock()
	s.phase = acceptIdle
	s.pending = nil
	s.mu.Unlock()
}

func (s *notificationService) Pending() *PendingAccept {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

// Start wires the feed to the realtime channel: every notification:new event
// triggers a (coalesced) refetch. The returned func detaches the feed.
func (s *notificationService) Start(ctx context.Context, ch *realtime.Channel) func() {
	return ch.SubscribeEvents(func(ev realtime.Event) {
		if ev.Type != realtime.EventNotificationNew {
			return
		}
		go func() {
			_, _ = s.Fetch(ctx)
		}()
	})
}

// Subscribe registers fn to run after every successful fetch.
func (s *notificationService) Subscribe(fn func(notifications []models.Notification)) func() {
	id := uuid.New()
	s.mu.Lock()
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *notificationService) notify(list []models.Notification) {
	s.mu.Lock()
	subs := make([]func([]models.Notification), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(list)
	}
}
