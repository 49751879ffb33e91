package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/stores"
)

// WhoAmI prints the authenticated user's own record.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(u.Username, "<"+u.Email+">")
	if u.Bio != "" {
		printlnFn(u.Bio)
	}
	return nil
}

// Profile prompts for a username and prints the public profile.
func (a *App) Profile(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	if !a.visit(ctx, "profile", map[string]string{"username": username}) {
		return nil
	}

	rr := api.NewEnvelope()
	u, err := a.users.Get(ctx, username, rr)
	if err != nil {
		printEnvelope(rr)
		return nil
	}

	printlnFn(u.Username)
	if u.Name != "" {
		printlnFn(u.Name)
	}
	if u.Bio != "" {
		printlnFn(u.Bio)
	}
	return nil
}

// UpdateProfile edits the authenticated user's own profile. The settings
// route is owner-gated, so the guard redirects anyone trying to edit a
// profile that is not theirs.
func (a *App) UpdateProfile(ctx context.Context) error {
	me := a.session.User()
	if me == nil {
		printlnFn("Login first")
		return nil
	}
	if !a.visit(ctx, "settings", map[string]string{"username": me.Username}) {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}
	bio, err := getSimpleText(a.reader, "Enter bio", os.Stdout)
	if err != nil {
		return err
	}
	avatarPath, err := getSimpleText(a.reader, "Avatar file (empty to keep current)", os.Stdout)
	if err != nil {
		return err
	}

	form := stores.ProfileForm{Name: name, Bio: bio}
	if avatarPath != "" {
		data, err := os.ReadFile(avatarPath)
		if err != nil {
			printlnFn("error:", err.Error())
			return nil
		}
		form.Avatar = data
		form.AvatarName = filepath.Base(avatarPath)
	}

	rr := api.NewEnvelope()
	u, err := a.users.UpdateProfile(ctx, me.Username, form, rr)
	if err != nil || u == nil {
		printEnvelope(rr)
		return nil
	}

	// Keep the session's copy in sync so hydration sees the fresh record.
	if err := a.session.SetUser(ctx, *u); err != nil {
		return err
	}

	printlnFn("Profile updated")
	return nil
}
