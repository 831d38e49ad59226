// Command pitchhmm builds pitch HMM state graphs from scores and inspects the
// emission model.
//
//	pitchhmm generate --config pitchhmm.yaml --format json --metrics
//	pitchhmm emission --pitch-class 7 --hz 392
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "pitchhmm",
		Short:        "Build and inspect pitch-tracking HMM state graphs",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newGenerateCmd(opts), newEmissionCmd())

	return root
}

// logger returns a text logger on the command's stderr.
func (o *rootOptions) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}
