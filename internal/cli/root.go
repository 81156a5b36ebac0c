// Package cli is wmsctl, a terminal front end for the console workflows.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ops-console/internal/client"
	"ops-console/internal/config"
	"ops-console/internal/console"
	"ops-console/internal/form"
	"ops-console/internal/render"
	"ops-console/internal/session"
)

const tokenEnv = "WMS_ID_TOKEN"

// errOutcome marks a command whose operation did not succeed. The outcome
// has already been printed.
var errOutcome = errors.New("operation failed")

type app struct {
	ops  *console.Console
	sess *session.Session
	out  io.Writer
	fmt  render.Formatter
}

type globalFlags struct {
	backend string
	token   string
	verbose bool
}

// Execute runs wmsctl and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errOutcome) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	a := &app{out: stdout}

	root := &cobra.Command{
		Use:           "wmsctl",
		Short:         "Warehouse operations console for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			built, err := newApp(flags, stdout, stderr)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&flags.token, "token", "", "identity token (default $"+tokenEnv+")")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(
		newListCmd(a),
		newMetricsCmd(a),
		newOverviewCmd(a),
		newOrderCmd(a),
		newPicklistCmd(a),
		newStockCmd(a),
		newTransferCmd(a),
		newStatusesCmd(a),
		newExportCmd(a),
	)

	return root
}

func newApp(flags *globalFlags, stdout, stderr io.Writer) (*app, error) {
	const op = "cli.newApp"

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if flags.backend != "" {
		cfg.Backend.BaseURL = flags.backend
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var sess *session.Session
	token := flags.token
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token = strings.TrimSpace(token); token != "" {
		sess, err = session.FromToken(token)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	cl, err := client.New(cfg.Backend.BaseURL, sess,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
		client.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	loc := cfg.Display.Location()
	f := render.NewFormatter(loc, cfg.Display.DateLayout)

	return &app{
		ops:  console.New(console.FromClient(cl), form.New(form.WithLocation(loc)), f, console.WithLogger(log)),
		sess: sess,
		out:  stdout,
		fmt:  f,
	}, nil
}
