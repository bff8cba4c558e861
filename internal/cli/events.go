package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"portcall/internal/platform/config"
	"portcall/internal/platform/kafka"
	"portcall/pkg/platform/audit"
)

// EventsCmd tails port events from Kafka.
func EventsCmd() *cobra.Command {
	cfg, err := config.FromEnv()
	if err != nil {
		cfg = config.Default()
	}
	var (
		brokers []string
		topic   string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print port events shipped to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(brokers) == 0 {
				return errors.New("no kafka brokers configured (use --kafka-brokers or PORTCALL_KAFKA_BROKERS)")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err := kafka.Consume(ctx, brokers, topic, func(e audit.Event) {
				fmt.Fprintln(out, formatEvent(e))
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringSliceVar(&brokers, "kafka-brokers", cfg.KafkaBrokers, "Kafka seed brokers")
	cmd.Flags().StringVar(&topic, "kafka-topic", cfg.KafkaTopic, "Kafka topic")
	return cmd
}

func eventColor(t audit.EventType) *color.Color {
	switch t {
	case audit.EventVesselDocked, audit.EventVesselReleased:
		return okColor
	case audit.EventVesselDamaged, audit.EventVesselEvicted, audit.EventWorkflowAbandoned:
		return badColor
	case audit.EventAdmissionRejected:
		return warnColor
	default:
		return dimColor
	}
}

func formatEvent(e audit.Event) string {
	line := fmt.Sprintf("%s  %-22s vessel=%d", e.At.Format("15:04:05.000"), eventColor(e.Type).Sprint(e.Type), e.VesselID)
	if e.Slot != audit.NoSlot {
		line += fmt.Sprintf(" slot=%d", e.Slot)
	}
	if e.Detail != "" {
		line += " " + e.Detail
	}
	return line
}
