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

	audit "caguard/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func TestStoreAppend(t *testing.T) {
	producer := &fakeProducer{}
	store := New(producer, "caguard.audit")
	event := audit.Event{
		ID:            "evt-1",
		Timestamp:     time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		HolderID:      "holder-1",
		Action:        audit.ActionApprovalTallied,
		Operation:     "addGuardian",
		Decision:      audit.DecisionSatisfied,
		Approved:      2,
		GuardianCount: 3,
	}

	require.NoError(t, store.Append(context.Background(), event))
	require.Len(t, producer.records, 1)

	record := producer.records[0]
	assert.Equal(t, "caguard.audit", record.Topic)
	assert.Equal(t, []byte("holder-1"), record.Key)
	require.Len(t, record.Headers, 1)
	assert.Equal(t, "approval_tallied", string(record.Headers[0].Value))

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, event, decoded)

	store.Close()
	assert.True(t, producer.closed)
}

func TestStoreAppendError(t *testing.T) {
	brokerErr := errors.New("NOT_ENOUGH_REPLICAS")
	store := New(&fakeProducer{err: brokerErr}, "caguard.audit")

	err := store.Append(context.Background(), audit.Event{HolderID: "holder-1", Action: audit.ActionApprovalTallied})
	assert.ErrorIs(t, err, brokerErr)
}

func TestDialValidation(t *testing.T) {
	_, err := Dial(nil, "caguard.audit", "")
	assert.Error(t, err)

	_, err = Dial([]string{"localhost:9092"}, "", "")
	assert.Error(t, err)
}
