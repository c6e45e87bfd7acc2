package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/session"
	"github.com/ikkim/storefront/internal/storefront"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// env is what every subcommand needs, built once in PersistentPreRunE.
type env struct {
	cfg    *config.Config
	client *shopapi.Client
	store  session.Store
	app    *storefront.App
}

type rootOptions struct {
	apiURL  string
	backend string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	e := &env{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the shop, manage the cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, opts, cliNotifier{cmd: cmd})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "storefront API base URL (default $STOREFRONT_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.backend, "session", "", "session backend: file, redis or memory (default $SESSION_BACKEND)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests and state changes")

	cmd.AddCommand(
		newLoginCmd(e),
		newLogoutCmd(e),
		newItemsCmd(e),
		newCartCmd(e),
		newAddCmd(e),
		newRemoveCmd(e),
		newCheckoutCmd(e),
		newOrdersCmd(e),
		newShopCmd(e),
		newSmokeCmd(e),
	)

	return cmd
}

func (e *env) setup(cmd *cobra.Command, opts *rootOptions, notifier storefront.Notifier) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.apiURL != "" {
		cfg.Client.BaseURL = opts.apiURL
	}
	if opts.backend != "" {
		cfg.Client.SessionBackend = opts.backend
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       level,
		Format:      "console",
		Output:      cmd.ErrOrStderr(),
		EnableColor: true,
	})

	client, err := shopapi.NewClient(shopapi.Config{
		BaseURL: cfg.Client.BaseURL,
		Timeout: cfg.Client.Timeout,
	})
	if err != nil {
		return err
	}

	store, err := session.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	e.cfg = cfg
	e.client = client
	e.store = store
	e.app = storefront.New(client, store, storefront.WithNotifier(notifier))
	return nil
}

// requireSession restores the stored token or fails with a hint to log in.
func (e *env) requireSession(ctx context.Context) error {
	restored, err := e.app.Restore(ctx)
	if err != nil {
		return err
	}
	if !restored {
		return errNotLoggedIn
	}
	return nil
}

var errNotLoggedIn = fmt.Errorf("%w: run `storefront login` first", storefront.ErrNotAuthenticated)

// cliNotifier prints notifications to stderr. Errors are left to the
// command's return value so they are not printed twice.
type cliNotifier struct {
	cmd *cobra.Command
}

func (n cliNotifier) Notify(notification storefront.Notification) {
	if notification.Level == storefront.LevelError {
		return
	}
	fmt.Fprintln(n.cmd.ErrOrStderr(), notification.Message)
}

// exitError keeps a failed command's message short for the common cases.
func exitError(err error) error {
	switch {
	case errors.Is(err, storefront.ErrNetwork):
		return fmt.Errorf("cannot reach the storefront API: %w", err)
	case errors.Is(err, storefront.ErrAuth):
		return fmt.Errorf("not authorized, try `storefront login` again: %w", err)
	}
	return err
}
