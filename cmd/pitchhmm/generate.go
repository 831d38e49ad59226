package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/katalvlaran/pitchhmm/config"
	"github.com/katalvlaran/pitchhmm/hmm"
	"github.com/katalvlaran/pitchhmm/metrics"
	"github.com/katalvlaran/pitchhmm/note"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type generateOptions struct {
	configPath   string
	trainingData string
	format       string
	metrics      bool
}

// runReport is the document printed by generate.
type runReport struct {
	RunID           string         `json:"run_id" yaml:"run_id"`
	TrainingDataDir string         `json:"training_data_dir,omitempty" yaml:"training_data_dir,omitempty"`
	Scores          []scoreSummary `json:"scores" yaml:"scores"`
}

// scoreSummary describes the model built for one score.
type scoreSummary struct {
	Name        string    `json:"name" yaml:"name"`
	Stats       hmm.Stats `json:"stats" yaml:"stats"`
	States      int       `json:"states" yaml:"states"`
	Unreachable []string  `json:"unreachable,omitempty" yaml:"unreachable,omitempty"`
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build one state graph per configured score and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}

			return runGenerate(cmd.OutOrStdout(), logger, opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "configuration file (YAML)")
	cmd.Flags().StringVar(&opts.trainingData, "training-data", "", "training-data directory (overrides the configuration)")
	cmd.Flags().StringVar(&opts.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "append generation metrics in Prometheus text format")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runGenerate(out io.Writer, logger *slog.Logger, opts *generateOptions) error {
	if opts.format != "yaml" && opts.format != "json" {
		return fmt.Errorf("--format: unknown format %q", opts.format)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger = logger.With(slog.String("run_id", runID))

	report := runReport{RunID: runID, Scores: make([]scoreSummary, len(cfg.Scores))}
	if opts.trainingData != "" || cfg.NeedsTrainingData() {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if report.TrainingDataDir, err = cfg.ResolveTrainingDataDir(opts.trainingData, wd); err != nil {
			return err
		}
		logger.Info("training data resolved", slog.String("dir", report.TrainingDataDir))
	}

	scores := make([]note.Sequence, len(cfg.Scores))
	for i, s := range cfg.Scores {
		if scores[i], err = s.Sequence(report.TrainingDataDir); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	gen := cfg.NewGenerator(hmm.WithLogger(logger), hmm.WithObserver(metrics.New(reg)))

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range cfg.Scores {
		eg.Go(func() error {
			summary, err := summarize(gen, s.Name, scores[i])
			if err != nil {
				return fmt.Errorf("score %q: %w", s.Name, err)
			}
			report.Scores[i] = summary

			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return err
	}

	if err = encode(out, opts.format, report); err != nil {
		return err
	}
	if opts.metrics {
		return writeMetrics(out, reg)
	}

	return nil
}

func summarize(gen *hmm.Generator, name string, notes note.Sequence) (scoreSummary, error) {
	m, _, err := gen.Generate(notes)
	if err != nil {
		return scoreSummary{}, err
	}
	unreachable, err := m.Unreachable()
	if err != nil {
		return scoreSummary{}, err
	}
	stats := m.Stats()
	summary := scoreSummary{Name: name, Stats: stats, States: stats.States()}
	for _, s := range unreachable {
		summary.Unreachable = append(summary.Unreachable, s.ID())
	}

	return summary, nil
}

func encode(out io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}

	return nil
}
