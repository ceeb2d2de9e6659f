package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
)

func (a *App) Challenges(ctx context.Context) error {
	list, err := a.challenges.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if len(list) == 0 {
		fmt.Println("No challenges.")
		return nil
	}
	for _, ch := range list {
		kind := "doubles"
		if ch.IsSingles {
			kind = "singles"
		}
		fmt.Printf("%s  %s -> %s  [%s, %s]  expires %s\n",
			ch.ID, ch.FromUser.Name, ch.ToUser.Name, kind, ch.Status, ch.ExpiresAt.Format("Jan 2 15:04"))
	}
	return nil
}

func (a *App) SendChallenge(ctx context.Context) error {
	toUserID, err := getSimpleText(a.reader, "Opponent user id", os.Stdout)
	if err != nil {
		return err
	}

	if !a.challenges.CanSend(toUserID) {
		switch a.challenges.DisplayReason(toUserID) {
		case models.ReasonPending:
			fmt.Println("There is already a pending challenge with this player.")
		case models.ReasonLimitReached:
			fmt.Println("You have reached the weekly challenge limit for this player.")
		}
		return nil
	}

	kind, err := getSimpleText(a.reader, "Singles or doubles? (s/d)", os.Stdout)
	if err != nil {
		return err
	}
	req := models.SendChallengeRequest{ToUserID: toUserID, IsSingles: kind != "d"}

	if !req.IsSingles {
		partnerID, err := getSimpleText(a.reader, "Your partner's user id", os.Stdout)
		if err != nil {
			return err
		}
		req.PartnerID = partnerID
	}

	message, err := getSimpleText(a.reader, "Message (optional)", os.Stdout)
	if err != nil {
		return err
	}
	req.Message = message

	ch, err := a.challenges.Send(ctx, req)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Challenge sent to %s.\n", ch.ToUser.Name)
	return nil
}

func (a *App) AcceptChallenge(ctx context.Context) error {
	challengeID, err := getSimpleText(a.reader, "Challenge id", os.Stdout)
	if err != nil {
		return err
	}

	kind, err := getSimpleText(a.reader, "Singles or doubles? (s/d)", os.Stdout)
	if err != nil {
		return err
	}
	partnerID := ""
	if kind == "d" {
		partnerID, err = getSimpleText(a.reader, "Your partner's user id", os.Stdout)
		if err != nil {
			return err
		}
	}

	ch, err := a.challenges.Accept(ctx, challengeID, partnerID)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Accepted challenge from %s.\n", ch.FromUser.Name)
	return nil
}

func (a *App) RejectChallenge(ctx context.Context) error {
	challengeID, err := getSimpleText(a.reader, "Challenge id", os.Stdout)
	if err != nil {
		return err
	}

	ch, err := a.challenges.Reject(ctx, challengeID)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Rejected challenge from %s.\n", ch.FromUser.Name)
	return nil
}
