package producers

import (
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/runwaysim/internal/models"
)

// SaramaProducer publishes simulation messages to Kafka, one topic per
// message kind, keyed by run so a run's messages stay in one partition.
type SaramaProducer struct {
	producer sarama.SyncProducer
	runKey   sarama.Encoder
}

func newSaramaConfig(config *models.Config) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if config.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second
	}
	return saramaConfig
}

func NewSaramaProducer(config *models.Config, runID string) (*SaramaProducer, error) {
	if len(config.KafkaBrokerList) == 0 {
		return nil, fmt.Errorf("kafka broker list is empty")
	}

	producer, err := sarama.NewSyncProducer(config.KafkaBrokerList, newSaramaConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Printf("Sarama producer created successfully with brokers %v", config.KafkaBrokerList)
	return NewSaramaProducerFrom(producer, runID), nil
}

// NewSaramaProducerFrom wraps an existing sync producer.
func NewSaramaProducerFrom(producer sarama.SyncProducer, runID string) *SaramaProducer {
	return &SaramaProducer{producer: producer, runKey: sarama.StringEncoder(runID)}
}

func (s *SaramaProducer) WriteMessage(topic string, msg []byte) error {
	if s.producer == nil {
		return fmt.Errorf("Sarama producer is not initialized")
	}

	_, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   s.runKey,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		log.Printf("Failed to send message to topic %s: %v", topic, err)
		return err
	}

	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer != nil {
		err := s.producer.Close()
		s.producer = nil
		return err
	}
	return nil
}
