package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/services"
)

// Notifications prints the feed and offers the accept flow for challenge
// notifications. Accepting a doubles challenge asks for a partner first.
func (a *App) Notifications(ctx context.Context) error {
	list, err := a.notifications.Fetch(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if len(list) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	for _, n := range list {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s — %s  (%s)\n", marker, n.ID, n.Title, n.Message, n.CreatedAt.Format("Jan 2 15:04"))
	}

	id, err := getSimpleText(a.reader, "Accept a challenge notification? Enter its id (empty to skip)", os.Stdout)
	if err != nil || id == "" {
		return err
	}

	outcome, err := a.notifications.BeginAccept(ctx, id)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if outcome == services.AcceptNeedsPartner {
		partnerID, err := getSimpleText(a.reader, "Doubles challenge: your partner's user id (empty to cancel)", os.Stdout)
		if err != nil {
			a.notifications.CancelAccept()
			return err
		}
		if partnerID == "" {
			a.notifications.CancelAccept()
			fmt.Println("Accept cancelled.")
			return nil
		}
		if err := a.notifications.ConfirmPartner(ctx, partnerID); err != nil {
			fmt.Println("Error:", err)
			return err
		}
	}

	fmt.Println("Challenge accepted.")
	return nil
}

func (a *App) MarkNotificationRead(ctx context.Context, notificationID string) error {
	if err := a.notifications.MarkRead(ctx, notificationID); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	return nil
}

func (a *App) MarkAllNotificationsRead(ctx context.Context) error {
	if err := a.notifications.MarkAllRead(ctx); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("All notifications marked read.")
	return nil
}
