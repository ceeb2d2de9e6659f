package cli

import (
	"context"
	"fmt"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
)

// Players lists all players together with their challenge eligibility. The
// eligibility cache is refreshed with one batched call before printing.
func (a *App) Players(ctx context.Context) error {
	players, err := a.users.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	me := a.session.CurrentUser()
	ids := make([]string, 0, len(players))
	for _, p := range players {
		if me != nil && p.ID == me.ID {
			continue
		}
		ids = append(ids, p.ID)
	}
	_, _ = a.challenges.RefreshStatuses(ctx, ids)

	for _, p := range players {
		marker := ""
		switch {
		case me != nil && p.ID == me.ID:
			marker = "you"
		case a.challenges.CanSend(p.ID):
			marker = "challengeable"
		case a.challenges.DisplayReason(p.ID) == models.ReasonPending:
			marker = "challenge pending"
		default:
			marker = "weekly limit reached"
		}
		fmt.Printf("#%-4d %-25s %5d pts  [%s]  %s\n", p.Rank, p.Name, p.Points, marker, p.ID)
	}
	return nil
}
