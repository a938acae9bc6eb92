package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer publishes marketplace notifications to Kafka.
type Producer interface {
	PublishEventConfigured(ctx context.Context, eventID, producerID uuid.UUID) error
	Publish(ctx context.Context, message *Message) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka producer.
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig reads the broker list and topic from the
// environment and falls back to local defaults.
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	brokers := []string{"localhost:9092"}
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("KAFKA_NOTIFICATION_TOPIC")
	if topic == "" {
		topic = "marketplace-notifications"
	}
	return &KafkaProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// KafkaProducer publishes notifications through a sarama sync producer.
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

func NewKafkaProducer(config *KafkaProducerConfig) (Producer, error) {
	if config == nil {
		config = DefaultKafkaProducerConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one event's notifications on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{producer: producer, config: config}, nil
}

func (p *KafkaProducer) PublishEventConfigured(ctx context.Context, eventID, producerID uuid.UUID) error {
	return p.Publish(ctx, NewMessage(TypeEventConfigured, eventID, producerID))
}

func (p *KafkaProducer) Publish(ctx context.Context, message *Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	kafkaMessage := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(message.EventID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(message.Type)},
			{Key: []byte("producer"), Value: []byte("ingresso-backend")},
		},
	}

	if _, _, err := p.producer.SendMessage(kafkaMessage); err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", message.ID, err)
	}
	return nil
}

func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	// SendMessage on a closed producer errors; a lightweight check is to
	// publish nothing and rely on connection state, so just report closed
	// producers.
	if p.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
