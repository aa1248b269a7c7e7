package events

import (
	"context"
	"encoding/json"
	"testing"

	"election-service/internal/config"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaramaPublisherSendsEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		assert.Equal(t, "vote.cast", env.Type)
		assert.JSONEq(t, `{"election_id":7}`, string(env.Payload))
		return nil
	})

	p := NewSaramaPublisherWithProducer(producer, "election-events")
	err := p.Publish(context.Background(), "vote.cast", "7", map[string]int{"election_id": 7})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestSaramaPublisherReturnsProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewSaramaPublisherWithProducer(producer, "election-events")
	err := p.Publish(context.Background(), "vote.cast", "1", struct{}{})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNewWithoutBrokersIsNop(t *testing.T) {
	p, err := New(config.KafkaConfig{})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), "x", "k", nil))

	_, err = New(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Client: "rabbit"})
	assert.Error(t, err)
}
