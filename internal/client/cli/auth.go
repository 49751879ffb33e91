package cli

import (
	"context"
	"os"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/session"
)

// Input helpers behind indirections so tests can drive the prompts.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getYesNo = GetYesNo

// Register prompts for the account fields and creates the account. A
// successful registration does not log the user in; the server's confirmation
// message is shown and the user proceeds to login.
func (a *App) Register(ctx context.Context) error {
	if !a.visit(ctx, "register", nil) {
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	passwordRepeat, err := getPassword("Repeat password", os.Stdout)
	if err != nil {
		return err
	}

	form := session.RegisterForm{
		Username:       username,
		Email:          email,
		Password:       password,
		PasswordRepeat: passwordRepeat,
	}

	rr := api.NewEnvelope()
	if err := a.session.Register(ctx, form, rr); err != nil {
		return err
	}

	printEnvelope(rr)
	return nil
}

// Login prompts for credentials and authenticates. The remember answer picks
// the storage tier the session survives in.
func (a *App) Login(ctx context.Context) error {
	if !a.visit(ctx, "login", nil) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	remember, err := getYesNo(a.reader, "Stay logged in?", os.Stdout)
	if err != nil {
		return err
	}

	form := session.LoginForm{Email: email, Password: password, Remember: remember}

	rr := api.NewEnvelope()
	if err := a.session.Login(ctx, form, rr); err != nil {
		return err
	}

	if u := a.session.User(); u != nil {
		printlnFn("Welcome back,", u.Username)
		return nil
	}

	printEnvelope(rr)
	return nil
}

// Logout goes through the logout pseudo-route so the guard performs the
// actual logout and redirect.
func (a *App) Logout(ctx context.Context) error {
	a.visit(ctx, "logout", nil)
	return nil
}
