package main

import (
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"uniagendas/internal/platform/logger"
)

// newRootCmd builds the command tree. Tests build a fresh tree per case so
// flag values never leak between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agendactl",
		Short:         "Operate a uniagendas deployment",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level for diagnostic output (debug, info, warn, error)")

	root.AddCommand(
		newProtocolCmd(),
		newCPFCmd(),
		newMigrateCmd(),
		newEventsCmd(),
	)
	return root
}

// cmdLogger writes JSON logs to stderr so stdout stays pipeable.
func cmdLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewWithWriter(cmd.ErrOrStderr(), level)
}

// seededRand returns a deterministic source when seed is non-zero.
func seededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
