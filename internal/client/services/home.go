package services

import (
	"context"
	"net/http"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

// HomeService fetches the dashboard aggregate in one call.
type HomeService interface {
	Dashboard(ctx context.Context) (*models.HomeData, error)
}

type backendHome struct {
	User             models.BackendUser      `json:"user"`
	UpcomingMatches  []models.BackendMatch   `json:"upcomingMatches"`
	RecentMatches    []models.BackendMatch   `json:"recentMatches"`
	ActiveChallenges []models.ArenaChallenge `json:"activeChallenges"`
	TopPlayers       []models.BackendUser    `json:"topPlayers"`
}

type homeService struct {
	api   api.Client
	users UserDirectory
	log   logging.Logger
}

func NewHomeService(apiClient api.Client, users UserDirectory, log logging.Logger) HomeService {
	return &homeService{
		api:   apiClient,
		users: users,
		log:   log.With("component", "home"),
	}
}

func (s *homeService) Dashboard(ctx context.Context) (*models.HomeData, error) {
	var wire backendHome
	if err := s.api.Do(ctx, http.MethodGet, endpointHome, nil, &wire); err != nil {
		return nil, err
	}

	data := &models.HomeData{
		User:             wire.User.ToUser(),
		UpcomingMatches:  make([]models.Match, 0, len(wire.UpcomingMatches)),
		RecentMatches:    make([]models.Match, 0, len(wire.RecentMatches)),
		ActiveChallenges: wire.ActiveChallenges,
		TopPlayers:       make([]models.User, 0, len(wire.TopPlayers)),
	}
	for _, m := range wire.UpcomingMatches {
		data.UpcomingMatches = append(data.UpcomingMatches, m.ToMatch())
	}
	for _, m := range wire.RecentMatches {
		data.RecentMatches = append(data.RecentMatches, m.ToMatch())
	}
	for _, u := range wire.TopPlayers {
		data.TopPlayers = append(data.TopPlayers, u.ToUser())
	}

	s.users.Remember(data.TopPlayers...)
	s.users.Remember(data.User)
	return data, nil
}
