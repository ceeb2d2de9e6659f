package models

// LeaderboardEntry is one row of the ranked player list. Rank comes from the
// server (or from the local fallback ranking) and is 1-based.
type LeaderboardEntry struct {
	User User `json:"user"`
	Rank int  `json:"rank"`
}

// BackendLeaderboardEntry is the wire form of a leaderboard row.
type BackendLeaderboardEntry struct {
	User BackendUser `json:"user"`
	Rank int         `json:"rank"`
}

func (b BackendLeaderboardEntry) ToEntry() LeaderboardEntry {
	return LeaderboardEntry{User: b.User.ToUser(), Rank: b.Rank}
}
