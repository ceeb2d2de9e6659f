package cli

import (
	"context"
	"fmt"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
)

func printMatches(header string, matches []models.Match) {
	if len(matches) == 0 {
		return
	}
	fmt.Println(header)
	for _, m := range matches {
		line := fmt.Sprintf("  %s vs %s  %s", m.Player1Name, m.Player2Name, m.ScheduledDate.Format("Jan 2 15:04"))
		if m.Status == models.MatchCompleted {
			line += fmt.Sprintf("  %d:%d", m.Player1Points, m.Player2Points)
		}
		fmt.Println(line)
	}
}

// Home prints the dashboard aggregate: profile summary, upcoming and recent
// matches, active arena challenges and the top players.
func (a *App) Home(ctx context.Context) error {
	data, err := a.home.Dashboard(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	u := data.User
	fmt.Printf("%s — rank #%d, %d pts, %d unread notifications\n",
		u.Name, u.Rank, u.Points, a.notifications.UnreadCount())

	printMatches("Upcoming matches:", data.UpcomingMatches)
	printMatches("Recent matches:", data.RecentMatches)

	if len(data.ActiveChallenges) > 0 {
		fmt.Println("Active arena challenges:")
		for _, c := range data.ActiveChallenges {
			fmt.Printf("  %s (%s)\n", c.Name, c.Type)
		}
	}
	if len(data.TopPlayers) > 0 {
		fmt.Println("Top players:")
		for _, p := range data.TopPlayers {
			fmt.Printf("  #%-3d %-25s %d pts\n", p.Rank, p.Name, p.Points)
		}
	}
	return nil
}
