package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/usersapp/internal/server/credentials"
)

var errInvalidLogin = errors.New("invalid name or password")

func (a *App) Login(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "-Enter name", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	entry, ok := a.creds.Verify(name, password)
	if !ok {
		a.logger.Warn(ctx, "failed login", "name", name)
		return errInvalidLogin
	}

	a.userName = entry.Name
	a.session.SetLogin(entry.Name)
	printlnFn("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.userName = ""
	a.session.SetLogin("")
	printlnFn("Logged out")
	return nil
}

// Hash prints a bcrypt hash of a password, for use in a credentials file.
func (a *App) Hash(ctx context.Context) error {
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("empty password")
	}

	hash, err := credentials.HashPassword(password)
	if err != nil {
		return err
	}
	printlnFn(hash)
	return nil
}
