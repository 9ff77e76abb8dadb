package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"uniagendas/internal/platform/config"
	"uniagendas/internal/platform/kafka"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the appointment event topic (reads KAFKA_BROKERS, KAFKA_TOPIC)",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	var (
		group     string
		fromStart bool
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print audit events as JSON lines until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if group == "" {
				group = fmt.Sprintf("agendactl-tail-%d", os.Getpid())
			}
			consumer, err := kafka.NewConsumer(cfg.Kafka, group, fromStart, printEvents(cmd.OutOrStdout(), cmd.ErrOrStderr()), cmdLogger(cmd))
			if err != nil {
				return err
			}
			return consumer.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Consumer group (default: one per process)")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "Start a new group at the earliest offset")
	return cmd
}

// printEvents writes one JSON object per record. Records that do not decode
// are skipped rather than retried forever.
func printEvents(w, errOut io.Writer) kafka.Handler {
	enc := json.NewEncoder(w)
	return kafka.HandlerFunc(func(_ context.Context, msg *kafka.Received) error {
		event, err := kafka.DecodeAuditEvent(msg)
		if err != nil {
			fmt.Fprintf(errOut, "skipping record: %v\n", err)
			return nil
		}
		return enc.Encode(event)
	})
}
