package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dchubs/hub/internal/hub/app"
	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hub",
		Short:         "DCHubs trust service: API tokens, CSRF and vote notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE:  runServe,
		},
		newMigrateCmd(),
		newSecretCmd(),
		newTargetsCmd(),
		newSessionCmd(),
	)
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and print the schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cfg.DatabaseFile)
			if err != nil {
				return err
			}
			defer db.Close()

			version, dirty, err := db.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}

func newSecretCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Print a random hex secret for HUB_*_SECRET or HUB_SEALING_KEY",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < jwtx.MinSecretLength {
				return fmt.Errorf("--bytes must be at least %d", jwtx.MinSecretLength)
			}
			s, err := cryptox.GenerateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", 32, "random bytes before hex encoding")
	return cmd
}

// targetView is what the CLI prints for a target. The shared secret itself
// is never printed.
type targetView struct {
	Type        domain.TargetType `json:"type"`
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	CallbackURL string            `json:"callbackUrl,omitempty"`
	HasSecret   bool              `json:"hasSecret"`
}

func newTargetsCmd() *cobra.Command {
	targets := &cobra.Command{
		Use:   "targets",
		Short: "Seed and inspect vote targets",
	}

	var t domain.VoteTarget
	var typ string
	put := &cobra.Command{
		Use:   "put",
		Short: "Create or update a vote target",
		Long: `Create or update a vote target in the database.

A running server with HUB_CACHE_DRIVER=memory keeps its cached copy of the
target until HUB_CACHE_TTL expires, so a changed callback or secret takes
effect after that delay. With the redis driver the change is seen at once.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t.Type = domain.TargetType(typ)
			return withApplication(func(a *app.Application) error {
				if err := a.Targets().Put(cmd.Context(), t); err != nil {
					return err
				}
				return printTarget(cmd.OutOrStdout(), t)
			})
		},
	}
	put.Flags().StringVar(&typ, "type", "", `"bot" or "server"`)
	put.Flags().StringVar(&t.ID, "id", "", "listing id")
	put.Flags().StringVar(&t.Name, "name", "", "display name used in Discord embeds")
	put.Flags().StringVar(&t.CallbackURL, "callback", "", "callback URL, empty disables notifications")
	put.Flags().StringVar(&t.SharedSecret, "secret", "", "shared secret for signing deliveries")
	_ = put.MarkFlagRequired("type")
	_ = put.MarkFlagRequired("id")

	var getType, getID string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show a vote target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(func(a *app.Application) error {
				found, err := a.Targets().Resolve(cmd.Context(), domain.TargetType(getType), getID)
				if err != nil {
					return err
				}
				return printTarget(cmd.OutOrStdout(), found)
			})
		},
	}
	get.Flags().StringVar(&getType, "type", "", `"bot" or "server"`)
	get.Flags().StringVar(&getID, "id", "", "listing id")
	_ = get.MarkFlagRequired("type")
	_ = get.MarkFlagRequired("id")

	targets.AddCommand(put, get)
	return targets
}

func newSessionCmd() *cobra.Command {
	session := &cobra.Command{
		Use:   "session",
		Short: "Browser session helpers for development and testing",
	}

	var subject string
	mint := &cobra.Command{
		Use:   "mint",
		Short: "Mint a session token for --subject with HUB_SESSION_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.SessionSecret.Reveal() == "" {
				return errors.New("HUB_SESSION_SECRET must be set; a token signed with an ephemeral key is useless")
			}
			cfg.LogLevel = "error"

			keys, err := app.InitKeys(cfg, app.NewLogger(cfg))
			if err != nil {
				return err
			}
			signer, err := jwtx.NewSigner(keys.Signing, jwtx.SignerOptions{
				Issuer:     cfg.Issuer,
				SessionTTL: cfg.SessionTTL,
			})
			if err != nil {
				return err
			}

			tok, err := signer.SignSession(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	mint.Flags().StringVar(&subject, "subject", "", "subject id the session belongs to")
	_ = mint.MarkFlagRequired("subject")

	session.AddCommand(mint)
	return session
}

// withApplication builds the application, runs fn and releases it. Targets
// are sealed at rest, so a persistent sealing key is required.
func withApplication(fn func(*app.Application) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.SealingKey.Reveal() == "" {
		return errors.New("HUB_SEALING_KEY must be set; targets sealed with an ephemeral key cannot be read back")
	}
	// Operator commands stay quiet unless something goes wrong.
	cfg.LogLevel = "error"

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func printTarget(w io.Writer, t domain.VoteTarget) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(targetView{
		Type:        t.Type,
		ID:          t.ID,
		Name:        t.Name,
		CallbackURL: t.CallbackURL,
		HasSecret:   t.HasSecret(),
	})
}
