package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"uniagendas/pkg/taxpayer"
)

func newCPFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cpf",
		Short: "Validate, format and generate CPF numbers",
	}
	cmd.AddCommand(newCPFValidateCmd(), newCPFFormatCmd(), newCPFGenerateCmd())
	return cmd
}

// errInvalidCPF makes the process exit non-zero when any argument fails.
var errInvalidCPF = errors.New("one or more CPFs are invalid")

func newCPFValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <cpf>...",
		Short: "Check CPF check digits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			for _, raw := range args {
				if taxpayer.IsValid(raw) {
					fmt.Fprintf(out, "%s\tvalid\t%s\n", raw, taxpayer.Format(raw))
					continue
				}
				failed = true
				fmt.Fprintf(out, "%s\tinvalid\n", raw)
			}
			if failed {
				return errInvalidCPF
			}
			return nil
		},
	}
}

func newCPFFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <cpf>",
		Short: "Render a CPF as XXX.XXX.XXX-XX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), taxpayer.Format(args[0]))
			return nil
		},
	}
}

func newCPFGenerateCmd() *cobra.Command {
	var (
		count int
		seed  uint64
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print valid CPFs for test data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			rng := seededRand(seed)
			out := cmd.OutOrStdout()
			for range count {
				cpf, err := generateCPF(rng)
				if err != nil {
					return err
				}
				if !plain {
					cpf = taxpayer.Format(cpf)
				}
				fmt.Fprintln(out, cpf)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of CPFs to print")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible output (0 picks a random seed)")
	cmd.Flags().BoolVar(&plain, "digits", false, "Print digits only")
	return cmd
}

// generateCPF draws nine digits and appends their check digits. Bases made
// of a single repeated digit are redrawn.
func generateCPF(rng *rand.Rand) (string, error) {
	for {
		base := fmt.Sprintf("%09d", rng.IntN(1_000_000_000))
		if !allSame(base) {
			digits, err := taxpayer.CheckDigits(base)
			if err != nil {
				return "", err
			}
			return base + digits, nil
		}
	}
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
