package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"samakicash/internal/adapter/repo"
	"samakicash/internal/infra"
	"samakicash/internal/infra/credentials"
	"samakicash/internal/providers/speech"
)

const commandTimeout = 30 * time.Second

// loadConfig is swapped in tests.
var loadConfig = infra.LoadConfig

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "samakictl",
		Short:         "Operator tooling for the SamakiCash API",
		SilenceUsage:  true,
	}
	root.AddCommand(newVoicesCmd(), newCatchesCmd(), newMigrateCmd(), newCredentialsCmd())
	return root
}

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List speech voices and show which one is selected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			synth := speech.New(speech.Options{
				APIKey:     cfg.Speech.APIKey,
				BaseURL:    cfg.Speech.BaseURL,
				Model:      cfg.Speech.Model,
				HTTPClient: &http.Client{Timeout: commandTimeout},
			})
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			voices, err := synth.ListVoices(ctx)
			if err != nil {
				return fmt.Errorf("list voices: %w", err)
			}
			return printVoices(cmd.OutOrStdout(), voices)
		},
	}
}

func printVoices(out io.Writer, voices []speech.Voice) error {
	selected, err := speech.SelectVoice(voices)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tVOICE ID\tNAME\tDESCRIPTION")
	for _, v := range voices {
		mark := ""
		if v.ID == selected.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, v.ID, v.Name, v.Description)
	}
	return tw.Flush()
}

func newCatchesCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "catches",
		Short: "List persisted catch records for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				return errors.New("--user is required")
			}
			store, closeDB, err := openPostgres(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			records, err := store.ListCatchesByUser(ctx, userID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to list catches for")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and catches tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeDB, err := openPostgres(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}
}

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage provider API keys stored in the database",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider> <api-key>",
		Short: "Store an API key for " + strings.Join(credentials.Providers, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			if err := credentials.NewStore(runner).Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", strings.ToLower(args[0]))
			return nil
		},
	})
	return cmd
}

func openPostgres(ctx context.Context) (*repo.PostgresStore, func(), error) {
	runner, closeDB, err := openRunner(ctx)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewPostgresStore(runner), closeDB, nil
}

func openRunner(ctx context.Context) (*infra.SQLRunner, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is not set; the in-memory store is not reachable from the CLI")
	}
	db, err := infra.NewDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv)
	return infra.NewSQLRunner(db, logger), func() { closeQuietly(db) }, nil
}

func closeQuietly(db *sql.DB) {
	_ = db.Close()
}
