package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/client"
	"github.com/nhle/taskboard/internal/credential"
)

var boardURL string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the terminal task board",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&boardURL, "url", "", "API base URL (overrides client.base_url)")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if boardURL != "" {
		cfg.Client.BaseURL = boardURL
	}

	token := cfg.Client.Token
	if token == "" {
		token, err = credential.Get(credential.KeyAPIToken)
		if err != nil && !errors.Is(err, credential.ErrNotFound) {
			return fmt.Errorf("reading api token: %w", err)
		}
	}

	c := client.NewClient(cfg.Client.BaseURL, token)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("taskboard API not reachable at %s: %w", cfg.Client.BaseURL, err)
	}

	p := tea.NewProgram(app.New(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
