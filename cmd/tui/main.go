package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ai-daily/internal/adapters/feedbackstore"
	"ai-daily/internal/adapters/source"
	"ai-daily/internal/adapters/tui"
	"ai-daily/internal/infra/config"
	"ai-daily/internal/infra/log"
	"ai-daily/internal/usecase/calendar"
	"ai-daily/internal/usecase/feedback"
	"ai-daily/internal/usecase/loader"
)

type options struct {
	date         string
	baseURL      string
	feedbackFile string
	tz           string
	logFile      string
	timeout      time.Duration
	appEnv       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
	}
	opts := &options{
		baseURL:      cfg.Source.BaseURL,
		feedbackFile: cfg.Feedback.File,
		tz:           cfg.TZ,
		timeout:      cfg.Source.Timeout,
		appEnv:       cfg.AppEnv,
	}

	cmd := &cobra.Command{
		Use:   "ai-daily-tui",
		Short: "Terminal dashboard for the AI daily digest",
		Long: `Shows the daily digest in the terminal.

Keys: ←/h previous day, →/l next day, r reload, j/k select a post,
u/d/s judge the selected post, q quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.date, "date", "", "day to open, YYYY-MM-DD (default today)")
	flags.StringVar(&opts.baseURL, "base-url", opts.baseURL, "digest location: http(s) URL or directory")
	flags.StringVar(&opts.feedbackFile, "feedback-file", opts.feedbackFile, "file with recorded judgments")
	flags.StringVar(&opts.tz, "tz", opts.tz, "viewer time zone")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	return cmd
}

func (o *options) resolve(now time.Time) (time.Time, *time.Location, error) {
	loc, err := calendar.Location(o.tz)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("time zone %q: %w", o.tz, err)
	}
	day, err := calendar.Resolve(o.date, now, loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("date %q: %w", o.date, err)
	}
	return day, loc, nil
}

func run(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	day, loc, err := opts.resolve(time.Now())
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewLogger(opts.appEnv, logOut)

	src := source.New(opts.baseURL, opts.timeout)
	journal := feedback.NewService(feedbackstore.NewFile(opts.feedbackFile), nil, log.Component(logger, "feedback"))
	model := tui.New(ctx, loader.NewService(src, log.Component(logger, "loader")), journal, day, loc)

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
