package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth browser flow and caches the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authenticator()
	if err != nil {
		return err
	}

	if !cmd.Bool("force") {
		if token, err := auth.CachedToken(); err == nil && token != nil {
			r.writePlain("Already logged in. Use --force to re-authorize.\n")
			return nil
		}
	}

	if _, err := auth.Login(ctx); err != nil {
		return err
	}

	r.writePlain("Logged in.\n")
	return nil
}

// AuthStatus reports whether a cached token exists and when it expires.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authenticator()
	if err != nil {
		return err
	}

	token, err := auth.CachedToken()
	if err != nil {
		return err
	}

	if token == nil {
		r.writePlain("Not logged in. Run: monthlify auth login\n")
		return nil
	}

	r.writePlain("Logged in.\n")
	if !token.Expiry.IsZero() {
		if token.Expiry.Before(time.Now()) {
			r.writePlain("Access token expired; it will be refreshed on the next run.\n")
		} else {
			r.writePlain("Access token valid until %s.\n", token.Expiry.Local().Format(time.RFC1123))
		}
	}

	return nil
}

// AuthLogout removes the cached token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authenticator()
	if err != nil {
		return err
	}

	if err := auth.Logout(); err != nil {
		return err
	}

	r.writePlain("Logged out.\n")
	return nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize via the browser and cache the token",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-authorize even if a token is cached",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token",
				Action: r.AuthLogout,
			},
		},
	}
}
