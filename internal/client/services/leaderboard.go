package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

// Filter selects the leaderboard population.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterMale   Filter = "male"
	FilterFemale Filter = "female"
)

const (
	// leaderboardTTL bounds how long a fetched snapshot is considered fresh.
	leaderboardTTL = 5 * time.Minute

	// defaultLeaderboardLimit caps how many rows are requested per fetch.
	defaultLeaderboardLimit = 100

	// eligibilityThreshold is the minimum number of matches against distinct
	// opponents required to appear on the locally computed board.
	eligibilityThreshold = 5
)

// LeaderboardService serves ranked player lists with a three-tier policy:
// fresh snapshot, then stale snapshot on fetch failure, then a ranking
// computed from locally known users.
type LeaderboardService interface {
	Get(ctx context.Context, filter Filter) ([]models.LeaderboardEntry, error)
	Weekly(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type snapshot struct {
	entries   []models.LeaderboardEntry
	fetchedAt time.Time
}

type leaderboardService struct {
	api   api.Client
	users UserDirectory
	log   logging.Logger

	// now is a seam for tests.
	now func() time.Time

	mu       sync.Mutex
	snaps    map[Filter]snapshot
	inFlight map[Filter]bool
}

func NewLeaderboardService(apiClient api.Client, users UserDirectory, log logging.Logger) LeaderboardService {
	return &leaderboardService{
		api:      apiClient,
		users:    users,
		log:      log.With("component", "leaderboard"),
		now:      time.Now,
		snaps:    make(map[Filter]snapshot),
		inFlight: make(map[Filter]bool),
	}
}

func leaderboardEndpoint(filter Filter) string {
	endpoint := fmt.Sprintf("%s?limit=%d", endpointLeaderboard, defaultLeaderboardLimit)
	if filter == FilterMale || filter == FilterFemale {
		endpoint += "&gender=" + string(filter)
	}
	return endpoint
}

// Get returns the board for filter. Server order is authoritative and is
// never re-sorted by the client.
func (s *leaderboardService) Get(ctx context.Context, filter Filter) ([]models.LeaderboardEntry, error) {
	now := s.now()

	s.mu.Lock()
	if snap, ok := s.snaps[filter]; ok && now.Sub(snap.fetchedAt) < leaderboardTTL {
		entries := snap.entries
		s.mu.Unlock()
		return entries, nil
	}
	if s.inFlight[filter] {
		// A refresh is already running; serve what we have, stale included.
		snap, ok := s.snaps[filter]
		s.mu.Unlock()
		if ok {
			return snap.entries, nil
		}
		return s.localFallback(filter), nil
	}
	s.inFlight[filter] = true
	s.mu.Unlock()

	entries, err := s.fetch(ctx, filter)

	s.mu.Lock()
	s.inFlight[filter] = false
	if err == nil {
		s.snaps[filter] = snapshot{entries: entries, fetchedAt: s.now()}
		s.mu.Unlock()
		return entries, nil
	}
	stale, hasStale := s.snaps[filter]
	s.mu.Unlock()

	if hasStale {
		s.log.Warn(ctx, "leaderboard fetch failed, serving stale snapshot", "filter", string(filter), "error", err)
		return stale.entries, nil
	}

	s.log.Warn(ctx, "leaderboard fetch failed, computing local ranking", "filter", string(filter), "error", err)
	return s.localFallback(filter), nil
}

func (s *leaderboardService) fetch(ctx context.Context, filter Filter) ([]models.LeaderboardEntry, error) {
	var wire []models.BackendLeaderboardEntry
	if err := s.api.Do(ctx, http.MethodGet, leaderboardEndpoint(filter), nil, &wire); err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(wire))
	fetched := make([]models.User, 0, len(wire))
	for _, w := range wire {
		e := w.ToEntry()
		entries = append(entries, e)
		fetched = append(fetched, e.User)
	}
	s.users.Remember(fetched...)
	return entries, nil
}

// Weekly is a pass-through read; the weekly board changes continuously and
// is not cached.
func (s *leaderboardService) Weekly(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var wire []models.BackendLeaderboardEntry
	if err := s.api.Do(ctx, http.MethodGet, endpointLeaderboardWeekly, nil, &wire); err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(wire))
	for _, w := range wire {
		entries = append(entries, w.ToEntry())
	}
	return entries, nil
}

// localFallback ranks locally known users when neither a fresh nor a stale
// snapshot is available. Eligibility requires at least eligibilityThreshold
// matches against distinct opponents; ordering is points desc, then win
// percentage desc, then total matches desc, with user id as the final
// deterministic tie break.
func (s *leaderboardService) localFallback(filter Filter) []models.LeaderboardEntry {
	var eligible []models.User
	for _, u := range s.users.LocalUsers() {
		if u.DistinctOpponents < eligibilityThreshold {
			continue
		}
		if filter == FilterMale && u.Gender != models.GenderMale {
			continue
		}
		if filter == FilterFemale && u.Gender != models.GenderFemale {
			continue
		}
		eligible = append(eligible, u)
	}

	// Pre-order by id so the stable sort below yields the same result for
	// the same inputs regardless of directory iteration order.
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.WinPercentage != b.WinPercentage {
			return a.WinPercentage > b.WinPercentage
		}
		return a.TotalMatches > b.TotalMatches
	})

	entries := make([]models.LeaderboardEntry, 0, len(eligible))
	for i, u := range eligible {
		entries = append(entries, models.LeaderboardEntry{User: u, Rank: i + 1})
	}
	return entries
}
