package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/services"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.session.CurrentUser(); u != nil && u.Name != "" {
		s = u.Name + " "
	}
	switch {
	case !a.isSignedIn():
		s += "signed out"
	case a.channel.Connected():
		s += "online"
	default:
		s += "offline"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the TT Rush arena CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("arena %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isSignedIn() {
				fmt.Println("Available commands: home, players, (l)eaderboard, weekly, challenges, send, accept, reject, (n)otifications, read, readall, profile, update, photo, onboard, logout, delete, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "delete":
			_ = a.DeleteAccount(ctx)

		case "profile":
			_ = a.ShowProfile(ctx)
		case "update":
			_ = a.UpdateProfile(ctx)
		case "photo":
			_ = a.UpdatePhoto(ctx)
		case "onboard":
			_ = a.CompleteOnboarding(ctx)

		case "home":
			_ = a.Home(ctx)
		case "players":
			_ = a.Players(ctx)

		case "l", "leaderboard":
			filter := services.FilterAll
			if len(args) > 0 {
				filter = services.Filter(args[0])
			}
			_ = a.Leaderboard(ctx, filter)
		case "weekly":
			_ = a.WeeklyLeaderboard(ctx)

		case "challenges":
			_ = a.Challenges(ctx)
		case "send":
			_ = a.SendChallenge(ctx)
		case "accept":
			_ = a.AcceptChallenge(ctx)
		case "reject":
			_ = a.RejectChallenge(ctx)

		case "n", "notifications":
			_ = a.Notifications(ctx)
		case "read":
			if len(args) == 0 {
				fmt.Println("Usage: read <notification-id>")
				continue
			}
			_ = a.MarkNotificationRead(ctx, args[0])
		case "readall":
			_ = a.MarkAllNotificationsRead(ctx)

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
