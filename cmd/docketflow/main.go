package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/pge-tools/docketflow/internal/archive"
	"github.com/pge-tools/docketflow/internal/config"
	"github.com/pge-tools/docketflow/internal/logging"
	"github.com/pge-tools/docketflow/internal/mni"
	"github.com/pge-tools/docketflow/internal/runner"
)

// Version is injected at build time
var Version = "dev"

func main() {
	if err := Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Execute is the CLI entry point, extracted for testing.
func Execute(args []string) error {
	rootCmd := &cobra.Command{
		Use:     "docketflow [case numbers...]",
		Short:   "Download judicial case documents from the ESAJ docket service",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Flags(), args)
		},
	}

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.Flags().String("cases-file", "", "File with one case number per line")
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

func run(flags *pflag.FlagSet, args []string) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	cfg.Cases = append(cfg.Cases, args...)
	if casesFile, _ := flags.GetString("cases-file"); casesFile != "" {
		fromFile, err := readCaseLines(casesFile)
		if err != nil {
			return err
		}
		cfg.Cases = append(cfg.Cases, fromFile...)
	}

	// Configuration validation is the only failure that aborts a run.
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := mni.NewClient(mni.ClientConfig{
		URL:             cfg.Service.URL,
		User:            cfg.Service.User,
		Password:        cfg.Service.Password,
		QueryTimeout:    cfg.QueryTimeout,
		DownloadTimeout: cfg.DownloadTimeout,
	}, logger)

	r := runner.New(cfg, client, logger)
	r.SetProgress(func(done, total int) {
		logger.Info("progress", zap.Int("done", done), zap.Int("total", total))
	})

	if cfg.ArchiveBucket != "" {
		archiver, err := archive.NewArchiver(ctx, cfg.ArchiveBucket, logger)
		if err != nil {
			return err
		}
		defer archiver.Close() //nolint:errcheck
		r.SetArchiver(archiver)
	}

	summary := r.Run(ctx)
	logger.Info("summary",
		zap.Int("attempted", summary.Attempted),
		zap.Int("completed", summary.Completed),
	)
	return nil
}

func readCaseLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cases file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cases file: %w", err)
	}
	return lines, nil
}
