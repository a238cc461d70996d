package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/config"
	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/ratelimit"
	"github.com/kuitang/site-e2e/internal/sitefixture"
	"github.com/kuitang/site-e2e/internal/smoke"
)

const (
	defaultServeAddr  = "127.0.0.1:8089"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "site-e2e",
		Short:         "Browser checks for the marketing site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			obs.Init()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errs.Wrap(errs.InvalidArgument, "bad flags", err)
	})
	root.AddCommand(installCmd(), smokeCmd(), serveCmd())
	return root
}

// loadConfig reads .env and the environment. Validation errors are
// InvalidArgument.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "load config", err)
	}
	return cfg, nil
}

func installCmd() *cobra.Command {
	var browsers []string
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the playwright driver and browsers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(browsers) == 0 {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				browsers = cfg.Browsers
			}
			obs.Pkg("cli").Info("installing browsers", "browsers", browsers)
			if err := browser.Install(browsers); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "installed")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&browsers, "browser", nil, "browsers to install (default E2E_BROWSERS)")
	return cmd
}

type smokeOptions struct {
	baseURL     string
	browserName string
	local       bool
	timeout     time.Duration
}

func smokeCmd() *cobra.Command {
	var opts smokeOptions
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Crawl the top menus and footer links and print a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if opts.baseURL != "" {
				cfg.BaseURL = opts.baseURL
			}
			if opts.local {
				cfg.LocalSite = true
			}
			if opts.browserName == "" {
				opts.browserName = cfg.Browsers[0]
			}
			cfg.PrintStartupSummary()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := withCrawlDeadline(ctx, opts.timeout)
			defer cancel()

			return runSmoke(ctx, cfg, opts.browserName, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "site to crawl (default BASE_URL)")
	cmd.Flags().StringVar(&opts.browserName, "browser", "", "browser to crawl with (default first of E2E_BROWSERS)")
	cmd.Flags().BoolVar(&opts.local, "local", false, "crawl an in-process replica instead of the live site")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall crawl deadline (0 for none)")
	return cmd
}

// withCrawlDeadline bounds ctx by d. Zero or negative means no deadline.
func withCrawlDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func runSmoke(ctx context.Context, cfg *config.Config, browserName string, out io.Writer) error {
	baseURL := cfg.BaseURL
	if cfg.LocalSite {
		srv, _, err := sitefixture.Start()
		if err != nil {
			return errs.Wrap(errs.Internal, "start replica", err)
		}
		defer srv.Close()
		baseURL = srv.URL
	}

	pw, err := playwright.Run()
	if err != nil {
		return errs.Wrap(errs.Unavailable, "start playwright (run `site-e2e install`)", err)
	}
	defer func() { _ = pw.Stop() }()

	b, err := browser.Launch(pw, cfg, browserName)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	page, err := b.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
	})
	if err != nil {
		return errs.FromPlaywright(errs.Unavailable, "open page", err)
	}
	page.SetDefaultTimeout(cfg.ActionTimeoutMS())

	limiter := ratelimit.NewHostLimiter(ratelimit.Config{
		RPS:             cfg.SmokeRPS,
		Burst:           cfg.SmokeBurst,
		CleanupInterval: ratelimit.DefaultConfig.CleanupInterval,
	})
	defer limiter.Stop()

	ctx = obs.WithCorrelation(ctx, obs.Correlation{RunID: obs.RunID(), Browser: browserName})
	runner := &smoke.Runner{Limiter: limiter, NavigationTimeout: cfg.NavigationTimeout}
	report, runErr := runner.Run(ctx, page, baseURL)

	if err := writeReport(out, report); err != nil {
		return errs.Wrap(errs.Internal, "write report", err)
	}
	if runErr != nil {
		return runErr
	}
	if !report.OK() {
		return errs.New(errs.NavigationFailed, fmt.Sprintf("%d of %d links failed", report.Failed, len(report.Results)))
	}
	return nil
}

func writeReport(w io.Writer, report smoke.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local replica site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newReplicaServer(addr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	return cmd
}

func newReplicaServer(addr string) (*http.Server, error) {
	site, err := sitefixture.New()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "build replica", err)
	}
	return &http.Server{
		Addr:              addr,
		Handler:           site,
		ReadHeaderTimeout: readHeaderTimeout,
	}, nil
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	log := obs.Pkg("cli")
	errCh := make(chan error, 1)
	go func() {
		log.Info("replica listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errs.Wrap(errs.Unavailable, "listen on "+srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("replica shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.Internal, "shutdown", err)
	}
	return nil
}
