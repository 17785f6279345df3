package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertextoedge/magpi-downloader/internal/adapter/filesystem"
	"github.com/vertextoedge/magpi-downloader/internal/adapter/metrics"
	"github.com/vertextoedge/magpi-downloader/internal/adapter/sqlite"
	"github.com/vertextoedge/magpi-downloader/internal/adapter/web"
	"github.com/vertextoedge/magpi-downloader/internal/config"
	"github.com/vertextoedge/magpi-downloader/internal/domain"
	"github.com/vertextoedge/magpi-downloader/internal/linkscan"
	"github.com/vertextoedge/magpi-downloader/internal/logger"
	"github.com/vertextoedge/magpi-downloader/internal/port"
	"github.com/vertextoedge/magpi-downloader/internal/service/batch"
	"github.com/vertextoedge/magpi-downloader/internal/service/fetcher"
)

type options struct {
	start      int
	end        int
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "magpi-downloader",
		Short:         "Download MagPi magazine issues as PDF files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.start, "start", 1, "first issue to download (1-based, inclusive)")
	flags.IntVar(&opts.end, "end", 0, "last issue to download (1-based, inclusive; default: issues.count)")
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "path to configuration file")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "magpi-downloader %s\n", version)
		},
	}
}

// issueRange resolves the --start/--end flags against the configured issue count
func issueRange(cmd *cobra.Command, opts *options, count int) (domain.IssueRange, error) {
	end := opts.end
	if !cmd.Flags().Changed("end") {
		end = count
	}
	return domain.NewIssueRange(opts.start, end, count)
}

// runBounds translates a validated range into the 0-based start and end
// passed to the batch downloader
func runBounds(rng domain.IssueRange, inclusiveEnd bool) (start, end int) {
	if inclusiveEnd {
		return rng.ZeroBasedInclusive()
	}
	return rng.ZeroBased()
}

func run(cmd *cobra.Command, opts *options) error {
	// Load configuration; the default path may be absent
	cfg, err := config.Load(opts.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()

	rng, err := issueRange(cmd, opts, cfg.Issues.Count)
	if err != nil {
		return err
	}

	zapLogger.Info("starting magpi-downloader",
		zap.String("version", version),
		zap.Int("start", rng.Start),
		zap.Int("end", rng.End),
		zap.String("folder", cfg.Issues.Folder),
	)

	client := web.NewClient(&web.ClientConfig{
		MetadataTimeout: cfg.HTTP.GetMetadataTimeout(),
		DownloadTimeout: cfg.HTTP.GetDownloadTimeout(),
		UserAgent:       cfg.HTTP.UserAgent,
	})
	storage := filesystem.NewManager(cfg.Issues.Folder)
	resolver := linkscan.NewResolver(linkscan.NewScanner())

	issueFetcher := fetcher.New(&fetcher.Config{
		ChunkSize:        cfg.Download.GetChunkSize(),
		ExactByteCount:   cfg.Download.ExactByteCount,
		ProgressInterval: cfg.Download.GetProgressInterval(),
	}, cfg.Issues.Catalog(), client, storage, resolver, zapLogger)

	recorder := metrics.New()

	// Journal stays a nil interface when disabled
	var journal port.Journal
	if cfg.Journal.Enabled {
		dbPath := cfg.Journal.GetPath(cfg.Issues.Folder)
		store, err := sqlite.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open journal %s: %w", dbPath, err)
		}
		defer store.Close()
		journal = store
	}

	downloader := batch.New(&batch.Config{
		SkipEmptySummary: cfg.Report.SkipEmptySummary,
	}, issueFetcher, journal, recorder, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start, end := runBounds(rng, cfg.Issues.InclusiveEnd)
	summary := downloader.Run(ctx, start, end)
	downloader.Report(summary)

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			zapLogger.Warn("failed to write metrics textfile",
				zap.String("path", cfg.Metrics.Textfile),
				zap.Error(err),
			)
		}
	}

	return nil
}
