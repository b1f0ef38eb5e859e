package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/cookieharvest/batch"
	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/config"
	"github.com/use-agent/cookieharvest/interaction"
	"github.com/use-agent/cookieharvest/random"
	"github.com/use-agent/cookieharvest/tabular"
)

type runFlags struct {
	output        string
	format        string
	start         int
	end           int
	maxScrolls    int
	scrollPause   time.Duration
	headless      bool
	mergeExisting bool
	logLevel      string
	logFormat     string
	logFile       string
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run <domains-file>",
		Short: "Harvest cookies from every domain listed in a CSV or XLSX file",
		Long: `Reads domains from the first column of a CSV (no header) or XLSX file,
visits each one in a single browser session, and writes the collected
cookies as Domain,cookie_domain,name,value rows.

Settings come from COOKIEHARVEST_* environment variables; flags override them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, &f, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			closer := initLogger(cfg.Log, cmd.OutOrStdout())
			defer closer.Close()

			return run(cmd.Context(), cfg, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (extension follows --format)")
	fl.StringVar(&f.format, "format", "", "output format: csv, xlsx or both")
	fl.IntVar(&f.start, "start", 0, "index of the first URL to visit")
	fl.IntVar(&f.end, "end", 0, "index after the last URL to visit (0 = all)")
	fl.IntVar(&f.maxScrolls, "max-scrolls", 0, "maximum scroll steps per page")
	fl.DurationVar(&f.scrollPause, "scroll-pause", 0, "base pause after each scroll")
	fl.BoolVar(&f.headless, "headless", true, "run the browser headless")
	fl.BoolVar(&f.mergeExisting, "merge-existing", false, "keep rows already in the output file")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", "", "text or json")
	fl.StringVar(&f.logFile, "log-file", "", "also write JSON logs to this rotating file")
	return cmd
}

// applyFlags copies every flag the user actually set over cfg.
func applyFlags(cmd *cobra.Command, f *runFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output.Path = f.output
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("start") {
		cfg.Batch.Start = f.start
	}
	if changed("end") {
		cfg.Batch.End = f.end
	}
	if changed("max-scrolls") {
		cfg.Interaction.MaxScrolls = f.maxScrolls
	}
	if changed("scroll-pause") {
		cfg.Interaction.ScrollPause = f.scrollPause
	}
	if changed("headless") {
		cfg.Browser.Headless = f.headless
	}
	if changed("merge-existing") {
		cfg.Output.MergeExisting = f.mergeExisting
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
}

func run(ctx context.Context, cfg *config.Config, domainsFile string) error {
	domains, err := tabular.LoadDomains(domainsFile)
	if err != nil {
		return err
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains found in %s", domainsFile)
	}
	slog.Info("cookieharvest starting",
		"version", Version,
		"domains", len(domains),
		"start", cfg.Batch.Start,
		"end", cfg.Batch.End,
		"headless", cfg.Browser.Headless,
		"output", cfg.Output.Path,
		"format", cfg.Output.Format,
	)

	rng := random.New(time.Now().UnixNano())
	engine := interaction.NewEngine(cfg.Interaction, rng, random.RealSleeper)
	open := func(ctx context.Context) (batch.Session, error) {
		s, err := browser.NewSession(cfg.Browser, rng)
		if err != nil {
			return nil, err
		}
		slog.Debug("browser identity", "userAgent", s.UserAgent())
		return s, nil
	}
	runner := batch.NewRunner(cfg.Batch, cfg.Interaction, open, engine, rng, random.RealSleeper)

	collected, summary, err := runner.Run(ctx, domains)
	if err != nil && !batch.Interrupted(err) {
		return err
	}
	if err != nil {
		slog.Warn("run interrupted, saving what was collected", "processed", summary.Processed, "total", summary.Total)
	}

	written, perr := batch.Persist(cfg.Output, collected)
	if perr != nil {
		return perr
	}
	slog.Info("cookieharvest finished",
		"status", summary.Status,
		"cookies", summary.Cookies,
		"files", written,
	)
	return err
}
