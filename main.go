package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chillchill/chilltok/app"
	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/infra/api"
	"github.com/chillchill/chilltok/infra/auth"
	"github.com/chillchill/chilltok/infra/config"
	"github.com/chillchill/chilltok/infra/logging"
	"github.com/chillchill/chilltok/infra/media"
	"github.com/chillchill/chilltok/infra/probe"
	"github.com/chillchill/chilltok/tui"
	"github.com/chillchill/chilltok/tui/common"
	"github.com/chillchill/chilltok/tui/motion"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes for the post command.
const (
	exitFailure   = 1
	exitNotFound  = 3
	exitForbidden = 4
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// runtimeDeps builds services from configuration. Tests replace it.
type runtimeDeps struct {
	feed   func(cfg config.Config, logger *log.Logger) (app.FeedService, error)
	prober func(cfg config.Config, logger *log.Logger) app.NetworkProbe
}

func defaultRuntimeDeps() runtimeDeps {
	return runtimeDeps{feed: newFeedService, prober: newProber}
}

type rootOptions struct {
	configPath string
	algo       string
	verbose    bool
}

func newRootCmd(deps runtimeDeps) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "chilltok",
		Short: "ChillChill short-video feed in the terminal",
		Long: `chilltok plays the ChillChill short-video feed in your terminal.
Scroll, swipe or press j/k to move between videos, f/F to switch between
For You and Following, and g to open a post by id.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFeed(cmd.Context(), opts, deps)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/chilltok/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	root.Flags().StringVarP(&opts.algo, "algo", "a", "", "feed algorithm: for-you | following")

	root.AddCommand(newPostCmd(opts, deps), newProbeCmd(opts, deps), newVersionCmd())
	return root
}

func newPostCmd(opts *rootOptions, deps runtimeDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "post <id>",
		Short: "Print a single post",
		Long: `Fetch one post and print its author, caption, tags and counters.
Exits with status 3 when the post does not exist and 4 when it is private.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer.Close()

			svc, err := deps.feed(cfg, logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), max(cfg.Timeout, time.Second))
			defer cancel()

			p, err := svc.FetchPost(ctx, strings.TrimSpace(args[0]))
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return &exitError{code: exitNotFound, err: fmt.Errorf("post %s not found", args[0])}
			case errors.Is(err, domain.ErrForbidden):
				return &exitError{code: exitForbidden, err: fmt.Errorf("post %s is private", args[0])}
			case err != nil:
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), common.PostSummary(p, 72))
			return nil
		},
	}
}

func newProbeCmd(opts *rootOptions, deps runtimeDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Measure bandwidth and print the preload tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer.Close()

			tier := deps.prober(cfg, logger).Measure(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "lookahead tier: %d\n", tier)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
			fmt.Fprintf(cmd.OutOrStdout(), "chilltok %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		},
	}
}

func setup(opts *rootOptions) (config.Config, *log.Logger, io.Closer, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config: %w", err)
	}
	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel, opts.verbose)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, logger, closer, nil
}

func newFeedService(cfg config.Config, logger *log.Logger) (app.FeedService, error) {
	client, err := api.New(api.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Session:   auth.NewFileSessionProvider(cfg.SessionPath, cfg.SessionName),
		Logger:    logger,
		UserAgent: "chilltok/" + version,
	})
	if err != nil {
		return nil, err
	}
	return api.NewFeedService(client), nil
}

func newProber(cfg config.Config, logger *log.Logger) app.NetworkProbe {
	return probe.New(probe.Options{
		URL:         cfg.ProbeURL,
		ApproxBytes: cfg.ProbeBytes,
		Timeout:     cfg.Timeout,
		Logger:      logger,
	})
}

// initialAlgo picks the flag, then the saved state, then the config value.
func initialAlgo(flag string, st config.UIState, cfg config.Config) (domain.Algo, error) {
	if strings.TrimSpace(flag) != "" {
		return domain.ParseAlgo(flag)
	}
	if a, err := domain.ParseAlgo(st.Algo); err == nil {
		return a, nil
	}
	return domain.ParseAlgo(cfg.Algo)
}

func runFeed(ctx context.Context, opts *rootOptions, deps runtimeDeps) error {
	cfg, logger, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	feedSvc, err := deps.feed(cfg, logger)
	if err != nil {
		return err
	}
	loader, err := media.NewLoader(media.Options{Timeout: cfg.Timeout, Logger: logger})
	if err != nil {
		return err
	}

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		logger.Warn("ignoring saved ui state", "err", err)
		uiState = config.DefaultUIState()
	}
	algo, err := initialAlgo(opts.algo, uiState, cfg)
	if err != nil {
		return err
	}

	mcfg := motion.DefaultConfig()
	mcfg.WheelThreshold = cfg.WheelThreshold
	mcfg.WheelCooldown = cfg.WheelCooldown
	mcfg.TouchDamping = cfg.TouchDamping
	mcfg.SnapDuration = cfg.SnapDuration
	mcfg.LineHeight = cfg.CellHeight

	root := tui.NewApp(tui.Deps{
		Feed:         feedSvc,
		Media:        loader,
		Probe:        deps.prober(cfg, logger),
		Algo:         algo,
		Muted:        uiState.Muted,
		Limit:        cfg.PageSize,
		Motion:       mcfg,
		CellHeight:   cfg.CellHeight,
		AmbientEvery: cfg.AmbientInterval,
		StatePath:    cfg.UIStatePath,
		Logger:       logger,
	})

	logger.Info("starting", "version", version, "algo", algo)
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chilltok: %w", err)
	}
	return nil
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// exitCode maps a command error to the process status.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func main() {
	if err := newRootCmd(defaultRuntimeDeps()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
