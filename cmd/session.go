package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishaan-vashist/cosmic-event/internal/adapter/sessions"
)

// sessionCmd groups session-store subcommands.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Session store utilities",
}

// sessionMintCmd creates a bearer token for a user id and prints it.
var sessionMintCmd = &cobra.Command{
	Use:   "mint <user-id>",
	Short: "Create a session token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := sessions.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		store := sessions.New(rdb, cfg.Auth.SessionTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		token, err := store.Mint(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// sessionRevokeCmd deletes a session token.
var sessionRevokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Revoke a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := sessions.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		store := sessions.New(rdb, cfg.Auth.SessionTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := store.Revoke(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "session revoked")
		return nil
	},
}

// sessionPingCmd checks connectivity to the session store.
var sessionPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the session store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := sessions.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		store := sessions.New(rdb, cfg.Auth.SessionTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "PONG")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionMintCmd)
	sessionCmd.AddCommand(sessionRevokeCmd)
	sessionCmd.AddCommand(sessionPingCmd)
}
