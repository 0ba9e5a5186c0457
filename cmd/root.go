/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopvine/storefront/config"
	"github.com/shopvine/storefront/internal/app"
	"github.com/shopvine/storefront/internal/notify"
	"github.com/shopvine/storefront/internal/session"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Command-line client for the storefront backend",
	Long: `Command-line client for the storefront backend.

Sessions persist between invocations: log in once, then browse the
catalog, manage your cart, and place orders. Admin accounts can manage
products, categories, slides, users, and orders.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp wires the client from the environment configuration.
func newApp() (*app.App, error) {
	cfg := config.LoadConfig()
	return app.New(cfg, notify.Stderr{})
}

// newSessionApp wires the client and rehydrates the persisted session.
// A logged-out session is not an error here; token-requiring operations
// fail on their own terms.
func newSessionApp(ctx context.Context) (*app.App, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if err := a.Session.Rehydrate(ctx); err != nil && !errors.Is(err, session.ErrSessionExpired) {
		return nil, err
	}
	return a, nil
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
