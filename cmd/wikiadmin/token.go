package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wikihost/internal/domain/auth"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var (
		sub auth.Subject
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
			jwtConfig.Issuer = cfg.JWT.Issuer
			jwtConfig.AccessTokenTTL = cfg.JWT.TTL
			if ttl > 0 {
				jwtConfig.AccessTokenTTL = ttl
			}

			token, expires, err := auth.NewJWTService(jwtConfig).GenerateAccessToken(sub)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sub.UserID, "user-id", "1", "user id claim")
	f.StringVar(&sub.Email, "email", "", "email claim")
	f.StringVar(&sub.Username, "username", "", "username claim")
	f.BoolVar(&sub.IsAdmin, "admin", true, "grant the admin claim")
	f.DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to jwt.ttl")
	return cmd
}
