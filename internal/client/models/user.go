// Package models defines the client-side data model and the backend wire
// representations it is decoded from. Backend documents use mongo-style
// field names (_id, profilePicture, ranking); the client model uses the
// flattened form the rest of the code works with.
package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type GameType string

const (
	GameTypeRightHand GameType = "right-hand"
	GameTypeLeftHand  GameType = "left-hand"
)

// User is the client-side player record.
type User struct {
	ID                string   `json:"id"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PhotoURL          string   `json:"photoUrl,omitempty"`
	Gender            Gender   `json:"gender,omitempty"`
	PhoneNumber       string   `json:"phoneNumber,omitempty"`
	GameType          GameType `json:"gameType,omitempty"`
	Points            int      `json:"points"`
	TotalWins         int      `json:"totalWins"`
	TotalLosses       int      `json:"totalLosses"`
	TotalMatches      int      `json:"totalMatches"`
	WinPercentage     float64  `json:"winPercentage"`
	Rank              int      `json:"rank"`
	DistinctOpponents int      `json:"matchesPlayedWithDifferentPlayers"`
	IsProfileComplete bool     `json:"isProfileComplete"`
}

// HasRequiredProfileFields reports whether the fields the backend requires
// for a complete profile are all present.
func (u User) HasRequiredProfileFields() bool {
	return u.Name != "" && u.Gender != "" && u.PhoneNumber != "" && u.GameType != ""
}

// BackendUser is the wire form of a user document. Different endpoints
// populate different subsets: auth responses carry "ranking", leaderboard
// entries carry "points" and "rank".
type BackendUser struct {
	ID                string   `json:"_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	GoogleID          string   `json:"googleId,omitempty"`
	ProfilePicture    string   `json:"profilePicture,omitempty"`
	Gender            Gender   `json:"gender,omitempty"`
	PhoneNumber       string   `json:"phoneNumber,omitempty"`
	GameType          GameType `json:"gameType,omitempty"`
	IsProfileComplete bool     `json:"isProfileComplete"`
	Ranking           int      `json:"ranking"`
	Points            int      `json:"points"`
	Rank              int      `json:"rank"`
	TotalWins         int      `json:"totalWins"`
	TotalLosses       int      `json:"totalLosses"`
	TotalMatches      int      `json:"totalMatches"`
	WinPercentage     float64  `json:"winPercentage"`
	WeeklyWins        int      `json:"weeklyWins,omitempty"`
	WeeklyLosses      int      `json:"weeklyLosses,omitempty"`
	DistinctOpponents int      `json:"matchesPlayedWithDifferentPlayers"`
}

// ToUser flattens a wire user into the client model, coalescing the fields
// that vary by endpoint.
func (b BackendUser) ToUser() User {
	points := b.Points
	if points == 0 {
		points = b.Ranking
	}
	rank := b.Rank
	if rank == 0 {
		rank = b.Ranking
	}
	totalMatches := b.TotalMatches
	if totalMatches == 0 {
		totalMatches = b.TotalWins + b.TotalLosses
	}
	return User{
		ID:                b.ID,
		Email:             b.Email,
		Name:              b.Name,
		PhotoURL:          b.ProfilePicture,
		Gender:            b.Gender,
		PhoneNumber:       b.PhoneNumber,
		GameType:          b.GameType,
		Points:            points,
		TotalWins:         b.TotalWins,
		TotalLosses:       b.TotalLosses,
		TotalMatches:      totalMatches,
		WinPercentage:     b.WinPercentage,
		Rank:              rank,
		DistinctOpponents: b.DistinctOpponents,
		IsProfileComplete: b.IsProfileComplete,
	}
}

// UserRef is the abbreviated user reference embedded in challenges, matches
// and notifications.
type UserRef struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}
