package models

import "time"

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchCompleted MatchStatus = "completed"
)

// Match is the flattened client view of a match. For doubles the backend's
// four player slots are folded into two "sides" with combined names, the way
// the match history screens present them.
type Match struct {
	ID            string      `json:"id"`
	Player1ID     string      `json:"player1Id"`
	Player2ID     string      `json:"player2Id"`
	Player1Name   string      `json:"player1Name"`
	Player2Name   string      `json:"player2Name"`
	Player1Photo  string      `json:"player1Photo,omitempty"`
	Player2Photo  string      `json:"player2Photo,omitempty"`
	WinnerID      string      `json:"winnerId,omitempty"`
	Status        MatchStatus `json:"status"`
	ScheduledDate time.Time   `json:"scheduledDate"`
	Player1Points int         `json:"player1Points"`
	Player2Points int         `json:"player2Points"`
}

// BackendMatch is the wire form of a match document. Singles matches use
// player1/player2; doubles use the four team slots.
type BackendMatch struct {
	ID        string `json:"_id"`
	IsSingles bool   `json:"isSingles"`

	Player1 *UserRef `json:"player1,omitempty"`
	Player2 *UserRef `json:"player2,omitempty"`

	Team1Player1 *UserRef `json:"team1Player1,omitempty"`
	Team1Player2 *UserRef `json:"team1Player2,omitempty"`
	Team2Player1 *UserRef `json:"team2Player1,omitempty"`
	Team2Player2 *UserRef `json:"team2Player2,omitempty"`

	Winner *UserRef `json:"winner,omitempty"`
	Status string   `json:"status"`
	Score  struct {
		Player1Score int `json:"player1Score"`
		Player2Score int `json:"player2Score"`
	} `json:"score"`
	MatchDate time.Time `json:"matchDate"`
	CreatedAt time.Time `json:"createdAt"`
}

func refName(r *UserRef) string {
	if r == nil {
		return "Unknown"
	}
	return r.Name
}

func refID(r *UserRef) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func refPhoto(r *UserRef) string {
	if r == nil {
		return ""
	}
	return r.ProfilePicture
}

// ToMatch flattens the wire match into the client view.
func (b BackendMatch) ToMatch() Match {
	m := Match{
		ID:            b.ID,
		Status:        MatchUpcoming,
		ScheduledDate: b.MatchDate,
		Player1Points: b.Score.Player1Score,
		Player2Points: b.Score.Player2Score,
	}
	if b.Status == "completed" {
		m.Status = MatchCompleted
	}
	if b.Winner != nil {
		m.WinnerID = b.Winner.ID
	}

	if b.IsSingles {
		m.Player1ID = refID(b.Player1)
		m.Player2ID = refID(b.Player2)
		m.Player1Name = refName(b.Player1)
		m.Player2Name = refName(b.Player2)
		m.Player1Photo = refPhoto(b.Player1)
		m.Player2Photo = refPhoto(b.Player2)
		return m
	}

	m.Player1ID = refID(b.Team1Player1)
	m.Player2ID = refID(b.Team2Player1)
	m.Player1Name = refName(b.Team1Player1) + " & " + refName(b.Team1Player2)
	m.Player2Name = refName(b.Team2Player1) + " & " + refName(b.Team2Player2)
	m.Player1Photo = refPhoto(b.Team1Player1)
	m.Player2Photo = refPhoto(b.Team2Player1)
	return m
}

// ArenaChallenge is an arena-wide event (rank range or weekly) shown on the
// dashboard; unrelated to player-to-player match challenges.
type ArenaChallenge struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	MinRank   int        `json:"minRank,omitempty"`
	MaxRank   int        `json:"maxRank,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// HomeData is the dashboard aggregate.
type HomeData struct {
	User             User             `json:"user"`
	UpcomingMatches  []Match          `json:"upcomingMatches"`
	RecentMatches    []Match          `json:"recentMatches"`
	ActiveChallenges []ArenaChallenge `json:"activeChallenges"`
	TopPlayers       []User           `json:"topPlayers"`
}
