package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"uniagendas/pkg/protocol"
)

func newProtocolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Generate protocol codes",
		Long: `Generate protocol codes without reserving them.

Codes printed here are previews: the server reserves codes when it issues
them, so a printed code may later be given to a real appointment.`,
	}
	cmd.AddCommand(newProtocolGenerateCmd(), newProtocolDatedCmd())
	return cmd
}

func newProtocolGenerateCmd() *cobra.Command {
	var (
		category string
		count    int
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print category-tagged codes such as AGD482913",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			c, known := protocol.ParseCategory(category)
			if !known && category != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "unknown category %q, using %s\n", category, c)
			}
			g := protocol.NewGenerator(protocol.WithSource(seededRand(seed)))
			out := cmd.OutOrStdout()
			for range count {
				fmt.Fprintln(out, g.Generate(c))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "appointment", "appointment, authorization or attendance (or AGD, AUT, ATD)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of codes to print")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible output (0 picks a random seed)")
	return cmd
}

func newProtocolDatedCmd() *cobra.Command {
	var (
		prefix string
		count  int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "dated",
		Short: "Print dated codes such as UNI202610170042",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			p := strings.ToUpper(strings.TrimSpace(prefix))
			if p == "" {
				return fmt.Errorf("--prefix must not be empty")
			}
			g := protocol.NewGenerator(protocol.WithSource(seededRand(seed)))
			out := cmd.OutOrStdout()
			for range count {
				fmt.Fprintln(out, g.GenerateDated(p))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", protocol.DefaultDatedPrefix, "Code prefix")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of codes to print")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible output (0 picks a random seed)")
	return cmd
}
