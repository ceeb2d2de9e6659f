package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/services"
)

func (a *App) ShowProfile(ctx context.Context) error {
	u, err := a.users.Profile(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	fmt.Printf("  gender: %s  phone: %s  plays: %s\n", u.Gender, u.PhoneNumber, u.GameType)
	fmt.Printf("  rank: %d  points: %d  matches: %d (W%d/L%d, %.1f%%)\n",
		u.Rank, u.Points, u.TotalMatches, u.TotalWins, u.TotalLosses, u.WinPercentage)
	return nil
}

// promptUpdate collects a partial profile update; empty answers leave the
// corresponding field unchanged.
func (a *App) promptUpdate() (services.ProfileUpdate, error) {
	var upd services.ProfileUpdate

	name, err := getSimpleText(a.reader, "Name (empty to keep)", os.Stdout)
	if err != nil {
		return upd, err
	}
	gender, err := getSimpleText(a.reader, "Gender: male/female (empty to keep)", os.Stdout)
	if err != nil {
		return upd, err
	}
	phone, err := getSimpleText(a.reader, "Phone number (empty to keep)", os.Stdout)
	if err != nil {
		return upd, err
	}
	gameType, err := getSimpleText(a.reader, "Playing hand: right-hand/left-hand (empty to keep)", os.Stdout)
	if err != nil {
		return upd, err
	}

	upd.Name = name
	upd.Gender = models.Gender(gender)
	upd.PhoneNumber = phone
	upd.GameType = models.GameType(gameType)
	return upd, nil
}

// UpdateProfile edits the profile. When the profile is still incomplete the
// edit goes through CompleteProfile so the required-field check runs and the
// session can advance to onboarding.
func (a *App) UpdateProfile(ctx context.Context) error {
	upd, err := a.promptUpdate()
	if err != nil {
		return err
	}

	if a.session.State() == services.StateIncompleteProfile {
		err = a.session.CompleteProfile(ctx, upd)
	} else {
		err = a.session.UpdateProfile(ctx, upd)
	}
	if err != nil {
		fmt.Println("Update failed:", err)
		return err
	}

	fmt.Println("Profile updated.")
	if a.session.State() == services.StateOnboarding {
		fmt.Println("Profile complete. Use 'onboard' to finish setting up.")
	}
	return nil
}

// UpdatePhoto uploads a local JPEG to the backend's image store and points
// the profile at it.
func (a *App) UpdatePhoto(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to a JPEG file", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	img, err := a.uploads.UploadImage(ctx, data, "")
	if err != nil {
		fmt.Println("Upload failed:", err)
		return err
	}

	if err := a.session.UpdateProfile(ctx, services.ProfileUpdate{PhotoURL: img.URL}); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Profile photo updated.")
	return nil
}

func (a *App) CompleteOnboarding(ctx context.Context) error {
	if err := a.session.CompleteOnboarding(ctx); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("You're all set.")
	return nil
}
