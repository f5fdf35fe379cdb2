// Package main is a small operator tool that mints caller-identity tokens
// for the record API. Useful for local development and smoke tests:
//
//	token -identity <64-hex> -secret <shared-secret> -ttl 1h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/platform/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out *os.File) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	identityHex := fs.String("identity", "", "caller identity as 64 hex characters")
	secret := fs.String("secret", "", "shared signing secret (defaults to AUTH_SECRET)")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *secret == "" {
		*secret = os.Getenv("AUTH_SECRET")
	}
	if *secret == "" {
		return fmt.Errorf("a signing secret is required (-secret or AUTH_SECRET)")
	}

	identity, err := domain.ParseIdentity(*identityHex)
	if err != nil {
		return fmt.Errorf("parsing identity: %w", err)
	}

	token, err := auth.GenerateToken(identity, []byte(*secret), *ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Fprintln(out, token)
	return nil
}
