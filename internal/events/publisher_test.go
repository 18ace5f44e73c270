package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedom_case_2/replydraft/internal/models"
)

type recordingWriter struct {
	msgs     []kafka.Message
	err      error
	closeErr error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestPublishKeysMessages(t *testing.T) {
	responses, outcomes := &recordingWriter{}, &recordingWriter{}
	p := &KafkaPublisher{responses: responses, outcomes: outcomes}
	ctx := context.Background()

	require.NoError(t, p.PublishResponse(ctx, models.GeneratedResponse{ID: "r1", TicketID: "T-42", Content: "Bonjour"}))
	require.NoError(t, p.PublishOutcome(ctx, OutcomeEvent{TemplateID: "tpl-1", Success: true, SuccessRate: 100, UsageCount: 1}))

	require.Len(t, responses.msgs, 1)
	assert.Equal(t, "T-42", string(responses.msgs[0].Key))
	var got models.GeneratedResponse
	require.NoError(t, json.Unmarshal(responses.msgs[0].Value, &got))
	assert.Equal(t, "Bonjour", got.Content)

	require.Len(t, outcomes.msgs, 1)
	assert.Equal(t, "tpl-1", string(outcomes.msgs[0].Key))

	require.NoError(t, p.Close())
	assert.True(t, responses.closed)
	assert.True(t, outcomes.closed)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	p := &KafkaPublisher{responses: &recordingWriter{err: errors.New("broker down")}, outcomes: &recordingWriter{}}
	err := p.PublishResponse(context.Background(), models.GeneratedResponse{TicketID: "T-1"})
	assert.EqualError(t, err, "broker down")
}

func TestKafkaWritersPartitionByKey(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "drafts", "outcomes")
	for _, mw := range []messageWriter{p.responses, p.outcomes} {
		w, ok := mw.(*kafka.Writer)
		require.True(t, ok)
		assert.Equal(t, flushInterval, w.BatchTimeout)

		partitions := []int{0, 1, 2}
		first := w.Balancer.Balance(kafka.Message{Key: []byte("T-42")}, partitions...)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, w.Balancer.Balance(kafka.Message{Key: []byte("T-42")}, partitions...))
		}
	}
}

func TestCloseClosesBothWriters(t *testing.T) {
	responses := &recordingWriter{closeErr: errors.New("flush failed")}
	outcomes := &recordingWriter{closeErr: errors.New("outcomes flush failed")}
	p := &KafkaPublisher{responses: responses, outcomes: outcomes}

	err := p.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "flush failed")
	assert.ErrorContains(t, err, "outcomes flush failed")
	assert.True(t, responses.closed)
	assert.True(t, outcomes.closed)
}
