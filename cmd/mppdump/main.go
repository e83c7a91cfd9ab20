package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-stdlog/stdlog"
	"github.com/spf13/cobra"

	"github.com/heyvito/mpp"
	"github.com/heyvito/mpp/internal/procutils"
	"github.com/heyvito/mpp/metrics"
	"github.com/heyvito/mpp/metrics/prom"
)

type options struct {
	ConfigPath   string
	Output       string
	Password     string
	Presentation bool
	Verbose      bool
	Metrics      bool
	Stats        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "mppdump <file>",
		Short: "Decode a Microsoft Project file and print its contents",
		Long: `Decodes a Microsoft Project binary file (MPP8 through MPP14) and prints
the resulting schedule.

Examples:
  mppdump plan.mpp
  mppdump plan.mpp --output json
  mppdump plan.mpp --config mpp.yaml --presentation --output yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML reader configuration")
	flags.StringVarP(&opts.Output, "output", "o", "summary", "output format (summary, json or yaml)")
	flags.StringVarP(&opts.Password, "password", "p", "", "password of a protected file")
	flags.BoolVar(&opts.Presentation, "presentation", false, "also read view, table, filter and group names")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log decoding progress to stderr")
	flags.BoolVar(&opts.Metrics, "metrics", false, "print read metrics in Prometheus text format to stderr")
	flags.BoolVar(&opts.Stats, "stats", false, "print process resource usage to stderr after reading")
	return cmd
}

// loadConfig builds the reader configuration, applying flags over the
// configuration file when one is given.
func loadConfig(opts *options) (mpp.Config, error) {
	cfg := mpp.DefaultConfig()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = mpp.LoadConfig(opts.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if opts.Password != "" {
		cfg.ReadPassword = opts.Password
	}
	if opts.Presentation {
		cfg.ReadPresentationData = true
	}
	if opts.Verbose {
		cfg.Logger = stdlog.NewStd(os.Stderr)
	}
	return cfg, nil
}

func run(stdout, stderr io.Writer, path string, opts *options) error {
	write, ok := writers[opts.Output]
	if !ok {
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var collector *prom.Collector
	if opts.Metrics {
		collector = prom.New()
		metrics.InstallDelegate(collector.Delegates())
	}

	project, err := mpp.ReadFile(path, cfg)
	if collector != nil {
		metrics.Flush()
		if mErr := collector.WriteText(stderr); mErr != nil {
			return fmt.Errorf("failed writing metrics: %w", mErr)
		}
	}
	if err != nil {
		return err
	}

	if err = write(stdout, project); err != nil {
		return fmt.Errorf("failed writing %s output: %w", opts.Output, err)
	}

	if opts.Stats {
		snap, err := procutils.TakeSnapshot(os.Getpid())
		if err != nil {
			return err
		}
		return writeStats(stderr, snap)
	}
	return nil
}
