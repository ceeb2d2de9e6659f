package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

// UserDirectory is the read side of the locally known player records; the
// leaderboard's offline fallback ranking is computed over these.
type UserDirectory interface {
	LocalUsers() []models.User
	Remember(users ...models.User)
}

// UserService fetches the player list and the current profile, retaining
// every user it has seen in an in-memory directory.
type UserService interface {
	UserDirectory
	List(ctx context.Context) ([]models.User, error)
	Profile(ctx context.Context) (*models.User, error)
}

type userService struct {
	api api.Client
	log logging.Logger

	mu    sync.Mutex
	known map[string]models.User
}

func NewUserService(apiClient api.Client, log logging.Logger) UserService {
	return &userService{
		api:   apiClient,
		log:   log.With("component", "users"),
		known: make(map[string]models.User),
	}
}

// List returns all players, sorted by the server (ranking order).
func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var wire []models.BackendUser
	if err := s.api.Do(ctx, http.MethodGet, endpointUsers, nil, &wire); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(wire))
	for _, bu := range wire {
		users = append(users, bu.ToUser())
	}
	s.Remember(users...)
	return users, nil
}

func (s *userService) Profile(ctx context.Context) (*models.User, error) {
	var bu models.BackendUser
	if err := s.api.Do(ctx, http.MethodGet, endpointProfile, nil, &bu); err != nil {
		return nil, err
	}
	u := bu.ToUser()
	s.Remember(u)
	return &u, nil
}

func (s *userService) Remember(users ...models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		s.known[u.ID] = u
	}
}

func (s *userService) LocalUsers() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.known))
	for _, u := range s.known {
		users = append(users, u)
	}
	return users
}
