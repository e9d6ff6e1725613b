package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/saasframework/internal/auth"
	"github.com/wolfeidau/saasframework/internal/logger"
)

type TokenCmd struct {
	ClientFlags `embed:""`

	Token  string `arg:"" help:"bearer token to inspect" env:"SAAS_TOKEN"`
	Verify bool   `help:"also ask the auth service whether the token is valid"`
}

func (c *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	logger.SetGlobal(logger.Setup(globals.Debug))
	ctx = log.Logger.WithContext(ctx)

	if err := printClaims(os.Stdout, c.Token, time.Now()); err != nil {
		return err
	}

	if !c.Verify {
		return nil
	}

	authCfg, _, err := c.clientConfigs()
	if err != nil {
		return err
	}
	authClient, err := auth.NewClient(authCfg)
	if err != nil {
		return err
	}

	user, err := authClient.GetCurrentUser(ctx, c.Token)
	if err != nil {
		fmt.Fprintf(os.Stdout, "\nRemote verification: rejected (%s)\n", err)
		return nil
	}
	fmt.Fprintf(os.Stdout, "\nRemote verification: valid for %s (%s)\n", user.Email, user.UserID)
	return nil
}

func printClaims(w io.Writer, token string, now time.Time) error {
	claims, err := auth.InspectToken(token)
	if errors.Is(err, auth.ErrOpaqueToken) {
		fmt.Fprintln(w, "Opaque token, no claims to decode")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Subject: %s\n", claims.Subject)
	fmt.Fprintf(w, "Issuer:  %s\n", claims.Issuer)
	if claims.IssuedAt != nil {
		fmt.Fprintf(w, "Issued:  %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
	}
	if claims.ExpiresAt != nil {
		fmt.Fprintf(w, "Expires: %s (expired: %t)\n", claims.ExpiresAt.UTC().Format(time.RFC3339), claims.Expired(now))
	}

	keys := make([]string, 0, len(claims.Claims))
	for k := range claims.Claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "Claims:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %v\n", k, claims.Claims[k])
	}
	return nil
}
