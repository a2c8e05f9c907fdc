package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/auth"
	"github.com/nhle/taskboard/internal/credential"
)

var (
	tokenUser   string
	tokenEmail  string
	tokenTTL    time.Duration
	tokenSave   bool
	tokenRevoke bool
)

// removeCredential is swapped out in tests.
var removeCredential = credential.Delete

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for jwt auth mode",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id placed in the token subject (defaults to auth.user_id)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "optional email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to auth.token_ttl_min)")
	tokenCmd.Flags().BoolVar(&tokenSave, "save", false, "store the token in the keyring for the board")
	tokenCmd.Flags().BoolVar(&tokenRevoke, "revoke", false, "remove the board token from the keyring instead of issuing one")
	tokenCmd.MarkFlagsMutuallyExclusive("save", "revoke")
}

func runToken(cmd *cobra.Command, _ []string) error {
	if tokenRevoke {
		return revokeToken(cmd)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	user := tokenUser
	if user == "" {
		user = cfg.Auth.UserID
	}
	if user == "" {
		return fmt.Errorf("--user is required")
	}

	secret, err := auth.ResolveSecret(cfg.Auth, credential.Get)
	if err != nil {
		return err
	}

	ttl := tokenTTL
	if ttl == 0 {
		ttl = time.Duration(cfg.Auth.TokenTTLMin) * time.Minute
	}

	token, err := auth.NewJWTManager(secret, ttl).IssueToken(user, tokenEmail)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	if tokenSave {
		if err := credential.Set(credential.KeyAPIToken, token); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "token saved to keyring")
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func revokeToken(cmd *cobra.Command) error {
	err := removeCredential(credential.KeyAPIToken)
	if errors.Is(err, credential.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved token")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "saved token removed from keyring")
	return nil
}
