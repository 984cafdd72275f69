package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/riceguard/riceguard/internal/client/nav"
	"github.com/riceguard/riceguard/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates a new account
// via the AuthService.
//
// On success it prints a confirmation and returns nil. The password byte
// slice is securely wiped before returning. Any I/O or service error is
// returned unchanged; API errors have already been shown to the user by the
// classifier.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, name, email, password); err != nil {
		return err
	}

	printlnFn("Account created. You can log in now.")
	return nil
}

// Login prompts for credentials and authenticates against the server.
//
// On success the session is persisted by the AuthService and the REPL
// navigates to the screen captured before a session expiry, if any,
// otherwise to the dashboard. The password is securely wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Welcome back, %s!", profile.Name))

	route := a.navigator.Resume()
	if route == "" {
		route = RouteDashboard
	}
	a.setRoute(route)
	return nil
}

// Logout tells the server, erases the local session and returns the REPL
// to the login screen.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.setRoute(nav.LoginRoute)
	printlnFn("Logged out.")
	return nil
}

// Profile prints the logged-in user.
func (a *App) Profile(ctx context.Context) error {
	profile, err := a.auth.Profile(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoSession) {
			printlnFn("Not logged in.")
			return nil
		}
		return err
	}
	printlnFn(fmt.Sprintf("%s <%s>", profile.Name, profile.Email))
	return nil
}
