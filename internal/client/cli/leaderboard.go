package cli

import (
	"context"
	"fmt"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/services"
)

func printBoard(entries []models.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("No ranked players yet.")
		return
	}
	for _, e := range entries {
		fmt.Printf("#%-4d %-25s %5d pts  %.1f%% of %d matches\n",
			e.Rank, e.User.Name, e.User.Points, e.User.WinPercentage, e.User.TotalMatches)
	}
}

func (a *App) Leaderboard(ctx context.Context, filter services.Filter) error {
	entries, err := a.leaderboard.Get(ctx, filter)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printBoard(entries)
	return nil
}

func (a *App) WeeklyLeaderboard(ctx context.Context) error {
	entries, err := a.leaderboard.Weekly(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printBoard(entries)
	return nil
}
