package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gradelens/gradelens/internal/queue"
	"github.com/gradelens/gradelens/internal/services"
)

func newEventsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "events [operation...]",
		Short: "Tail analytics events published by the service",
		Long: `events subscribes to the event queue configured under "events" in
--config and prints every analytics event as it arrives. Without arguments
every operation is tailed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			q, err := queue.NewQueue(cfg.Events)
			if err != nil {
				return fmt.Errorf("failed to connect to queue: %w", err)
			}
			defer func() { _ = q.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return tailEvents(ctx, q, cfg.Events.SubjectPrefix, args, newEventPrinter(cmd.OutOrStdout(), opts.jsonOutput))
		},
	}
}

// tailEvents subscribes to each operation's subject until ctx is done
func tailEvents(ctx context.Context, sub queue.Subscriber, prefix string, operations []string, handle func(services.Event)) error {
	if len(operations) == 0 {
		operations = services.Operations
	}

	for _, op := range operations {
		subject := prefix + "." + op
		err := sub.Subscribe(subject, func(msg queue.Message) error {
			ev, err := services.DecodeEvent(msg.Data)
			if err != nil {
				return err
			}
			handle(ev)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	<-ctx.Done()
	for _, op := range operations {
		_ = sub.Unsubscribe(prefix + "." + op)
	}
	return nil
}

// newEventPrinter writes one line per event. Subscriptions deliver
// concurrently so writes are serialized.
func newEventPrinter(w io.Writer, asJSON bool) func(services.Event) {
	var mu sync.Mutex
	return func(ev services.Event) {
		mu.Lock()
		defer mu.Unlock()

		if asJSON {
			_ = writeJSON(w, ev)
			return
		}
		ts := time.UnixMilli(ev.Timestamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "%s  %-18s size=%-5d %.3fms  id=%s\n",
			ts, ev.Operation, ev.InputSize, ev.DurationMs, ev.ID)
	}
}
