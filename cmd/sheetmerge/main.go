// Command sheetmerge merges CKH and KKH exports from the command line and
// writes the merged and filtered workbooks.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetmerge/internal/config"
	"github.com/JonMunkholm/sheetmerge/internal/core"
	"github.com/JonMunkholm/sheetmerge/internal/logging"
)

type options struct {
	ckh      []string
	kkh      []string
	column   string
	query    string
	exact    bool
	outDir   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "sheetmerge --ckh FILE... --kkh FILE... [--query 1201,1305]",
		Short: "Merge CKH/KKH account exports and filter by branch",
		Long: `sheetmerge reads .csv, .xlsx and .xls exports, merges them in order
(CKH files first), tags every row with its source file and group, and writes
ALL_CKH_KKH_MERGED.xlsx and FILTERED_CKH_KKH.xlsx to the output directory.

Files that cannot be read are skipped and listed on stderr.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.ckh, "ckh", nil, "CKH file (repeatable)")
	f.StringArrayVar(&opts.kkh, "kkh", nil, "KKH file (repeatable)")
	f.StringVar(&opts.column, "column", "", "Filter column (default: detected branch column)")
	f.StringVarP(&opts.query, "query", "q", "", "Comma-separated values to keep, e.g. 1201,1305")
	f.BoolVar(&opts.exact, "exact", false, "Match all-digit values exactly instead of as substrings")
	f.StringVarP(&opts.outDir, "out-dir", "o", ".", "Directory for the output workbooks")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	return cmd
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(stderr, opts.logLevel, cfg.Logging.Format))

	uploads, err := loadUploads(opts, cfg.Upload.MaxFileSize)
	if err != nil {
		return err
	}

	service, err := core.NewService(cfg)
	if err != nil {
		return err
	}

	res, err := service.Ingest(ctx, uploads)
	if res != nil {
		for _, f := range res.Failures {
			fmt.Fprintf(stderr, "skipped %s (%s): %s [%s]\n", f.FileName, f.Category, f.Reason, f.Code)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
	}

	filtered, err := core.FilterResult(res, core.FilterRequest{
		Column: opts.column,
		Query:  opts.query,
		Exact:  opts.exact,
	})
	if err != nil {
		return err
	}

	allName, filteredName := core.ArtifactNames()
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := writeWorkbook(filepath.Join(opts.outDir, allName), res.Merged); err != nil {
		return err
	}
	if err := writeWorkbook(filepath.Join(opts.outDir, filteredName), filtered); err != nil {
		return err
	}

	column := opts.column
	if column == "" {
		column = res.DefaultColumn
	}
	fmt.Fprintf(stdout, "read %d of %d files, %d rows merged\n", res.TablesRead, res.FilesSeen, res.Merged.Len())
	for _, src := range res.Sources {
		fmt.Fprintf(stdout, "  %-4s %6d  %s\n", src.Category, src.Rows, src.FileName)
	}
	fmt.Fprintf(stdout, "filter %s=%q exact=%v: %d rows\n", column, opts.query, opts.exact, filtered.Len())
	fmt.Fprintf(stdout, "wrote %s and %s\n", allName, filteredName)
	return nil
}
