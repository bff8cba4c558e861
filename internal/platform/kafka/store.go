// Package kafka publishes port events to a Kafka topic with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"portcall/pkg/platform/audit"
	"portcall/pkg/platform/sentinel"
)

// Producer is the part of *kgo.Client the store needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store appends port events to a topic, keyed by vessel id so one vessel's
// events stay ordered within a partition.
type Store struct {
	producer Producer
	topic    string
	client   *kgo.Client
}

// NewStoreWithProducer wraps an existing producer.
func NewStoreWithProducer(producer Producer, topic string) (*Store, error) {
	if producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	return &Store{producer: producer, topic: topic}, nil
}

// Dial connects to brokers, makes sure topic exists and returns a store that
// owns the client. Close releases it.
func Dial(ctx context.Context, brokers []string, topic string) (*Store, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping kafka %v: %w: %v", brokers, sentinel.ErrUnavailable, err)
	}
	if err := EnsureTopic(ctx, kadm.NewClient(client), topic, 1, 1); err != nil {
		client.Close()
		return nil, err
	}

	s, err := NewStoreWithProducer(client, topic)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.client = client
	return s, nil
}

// EnsureTopic creates topic unless it already exists.
func EnsureTopic(ctx context.Context, admin *kadm.Client, topic string, partitions int32, replication int16) error {
	resp, err := admin.CreateTopic(ctx, partitions, replication, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// Append produces the event synchronously.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(strconv.FormatInt(event.VesselID, 10)),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w: %v", event.ID, sentinel.ErrUnavailable, err)
	}
	return nil
}

// Close flushes and closes the client created by Dial.
func (s *Store) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
