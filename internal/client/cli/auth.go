package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errEmptyCredentials = errors.New("email and password are required")

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", nil, err
	}

	if email == "" || len(password) == 0 {
		common.WipeByteArray(password)
		return "", nil, errEmptyCredentials
	}
	return email, password, nil
}

// Signup prompts for an email and password, creates the account and signs
// the user in. The password byte slice is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Signup(ctx, email, password); err != nil {
		return err
	}

	a.lastList = nil
	printlnFn("Signed up as", a.authService.Email())
	return nil
}

// Login prompts for credentials and signs the user in. The session is kept
// in the local database until Logout.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}

	a.lastList = nil
	printlnFn("Signed in as", a.authService.Email())
	return nil
}

// Logout forgets the saved session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.lastList = nil
	printlnFn("Logged out")
	return nil
}
