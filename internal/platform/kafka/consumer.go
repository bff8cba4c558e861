package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"portcall/pkg/platform/audit"
)

// Consume reads port events from topic, oldest first, and hands each to fn
// until ctx ends. Records that are not events are skipped.
func Consume(ctx context.Context, brokers []string, topic string, fn func(audit.Event)) error {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer client.Close()

	for {
		fetches := client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if fetches.IsClientClosed() {
			return nil
		}
		var fetchErr error
		fetches.EachError(func(t string, p int32, err error) {
			fetchErr = fmt.Errorf("fetch %s[%d]: %w", t, p, err)
		})
		if fetchErr != nil {
			return fetchErr
		}
		fetches.EachRecord(func(r *kgo.Record) {
			var e audit.Event
			if err := json.Unmarshal(r.Value, &e); err != nil {
				return
			}
			fn(e)
		})
	}
}
