package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/closure"
	"github.com/katalvlaran/subalg/job"
	"github.com/katalvlaran/subalg/progress"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel string
	jsonLogs bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "sgclose",
		Short:         "Compute subuniverses generated by tuples in finite product algebras",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&g.jsonLogs, "json-logs", false, "emit logs as JSON")

	root.AddCommand(newRunCmd(g), newAlgebraCmd(), newVersionCmd())

	return root
}

type runFlags struct {
	workers     int
	powerPath   bool
	metricsAddr string
	summary     bool
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "Run a closure job and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel, g.jsonLogs)
			if err != nil {
				return err
			}
			return runJob(cmd.Context(), cmd.OutOrStdout(), logger, args[0], f, cmd.Flags().Changed("workers"))
		},
	}
	cmd.Flags().IntVar(&f.workers, "workers", 1, "enumeration workers (overrides the job file)")
	cmd.Flags().BoolVar(&f.powerPath, "power-path", true, "use the table-driven path for power algebras")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "omit elements and terms from the output")

	return cmd
}

func runJob(ctx context.Context, out io.Writer, logger *slog.Logger, path string, f *runFlags, workersSet bool) error {
	j, err := job.LoadFile(path)
	if err != nil {
		return err
	}
	j.PowerPath = f.powerPath

	var extra []closure.Option
	if workersSet {
		extra = append(extra, closure.WithWorkers(f.workers))
	}
	if f.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		extra = append(extra, closure.WithMetrics(progress.NewMetrics(reg)))

		shutdown, err := serveMetrics(f.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	res, err := j.Run(ctx, logger, extra...)
	if res == nil {
		return err
	}

	report := j.Report(res)
	if f.summary {
		report.Elements = nil
		report.Terms = nil
	}
	if encErr := writeJSON(out, report); encErr != nil {
		return encErr
	}

	// A canceled run still prints its partial result, then fails.
	return err
}

// serveMetrics exposes reg over HTTP until the returned func is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

type algebraFlags struct {
	builtin string
	size    int
	asYAML  bool
}

// algebraSummary is the JSON summary printed by "sgclose algebra".
type algebraSummary struct {
	Name       string   `json:"name"`
	Size       int      `json:"size"`
	Operations []string `json:"operations"`
}

func newAlgebraCmd() *cobra.Command {
	f := &algebraFlags{}
	cmd := &cobra.Command{
		Use:   "algebra [file.yaml]",
		Short: "Summarise an algebra file or print a built-in algebra",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadAlgebra(args, f)
			if err != nil {
				return err
			}
			if f.asYAML {
				return algebra.WriteYAML(cmd.OutOrStdout(), a)
			}
			sum := algebraSummary{Name: a.Name(), Size: a.Size()}
			for _, s := range algebra.Signature(a) {
				sum.Operations = append(sum.Operations, s.String())
			}
			return writeJSON(cmd.OutOrStdout(), sum)
		},
	}
	cmd.Flags().StringVar(&f.builtin, "builtin", "", "built-in algebra: ba2, cyclic, semilattice, trivial")
	cmd.Flags().IntVar(&f.size, "size", 2, "size of a built-in algebra")
	cmd.Flags().BoolVar(&f.asYAML, "yaml", false, "print the algebra in the YAML file format")

	return cmd
}

func loadAlgebra(args []string, f *algebraFlags) (*algebra.Basic, error) {
	switch {
	case len(args) == 1 && f.builtin != "":
		return nil, errors.New("give a file or --builtin, not both")
	case f.builtin != "":
		return algebra.Builtin(f.builtin, f.size)
	case len(args) == 1:
		file, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return algebra.ReadYAML(file)
	default:
		return nil, errors.New("give a file or --builtin")
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sgclose", version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
