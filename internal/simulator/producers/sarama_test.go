package producers

import (
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaramaProducerSendsKeyedMessages(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"runId":"run-1"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})

	p := NewSaramaProducerFrom(mock, "run-1")
	require.NoError(t, p.WriteMessage(models.TopicRunSummaries, []byte(`{"runId":"run-1"}`)))
	require.NoError(t, p.Close())

	assert.Error(t, p.WriteMessage(models.TopicRunSummaries, []byte(`{}`)), "closed producer rejects writes")
}

func TestSaramaProducerReturnsSendError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewSaramaProducerFrom(mock, "run-2")
	err := p.WriteMessage(models.TopicFlightRecords, []byte(`{}`))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNewSaramaProducerNeedsBrokers(t *testing.T) {
	_, err := NewSaramaProducer(models.DefaultConfig(), "run-3")
	assert.Error(t, err)
}

func TestSaramaConfigSessionTimeout(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.SessionTimeoutMs = 10000
	sc := newSaramaConfig(cfg)
	assert.Equal(t, int64(10000), sc.Consumer.Group.Session.Timeout.Milliseconds())
	assert.True(t, sc.Producer.Return.Successes)
}
