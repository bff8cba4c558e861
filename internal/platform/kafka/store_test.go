package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"portcall/pkg/platform/audit"
	"portcall/pkg/platform/sentinel"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestStore_Append(t *testing.T) {
	producer := &fakeProducer{}
	store, err := NewStoreWithProducer(producer, "port-events")
	require.NoError(t, err)

	event := audit.Event{
		ID:       "evt-1",
		Type:     audit.EventVesselDocked,
		VesselID: 42,
		Slot:     2,
		At:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Append(context.Background(), event))

	require.Len(t, producer.records, 1)
	r := producer.records[0]
	assert.Equal(t, "port-events", r.Topic)
	assert.Equal(t, "42", string(r.Key))
	require.Len(t, r.Headers, 1)
	assert.Equal(t, "vessel_docked", string(r.Headers[0].Value))

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(r.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestStore_AppendFailureIsUnavailable(t *testing.T) {
	store, err := NewStoreWithProducer(&fakeProducer{err: errors.New("broker down")}, "port-events")
	require.NoError(t, err)

	err = store.Append(context.Background(), audit.Event{ID: "evt-2"})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestNewStoreWithProducer_Validation(t *testing.T) {
	_, err := NewStoreWithProducer(nil, "t")
	assert.Error(t, err)
	_, err = NewStoreWithProducer(&fakeProducer{}, "")
	assert.Error(t, err)
	_, err = Dial(context.Background(), nil, "t")
	assert.Error(t, err)
}
