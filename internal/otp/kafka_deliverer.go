package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/branch-teller-ledger/internal/config"
)

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// notification is the message published on the OTP topic. A downstream
// notification service owns the actual SMS/email hop.
type notification struct {
	AccountID string    `json:"account_id"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
}

// KafkaDeliverer publishes one-time codes to a Kafka notification topic,
// keyed by account id so codes for one account stay ordered.
type KafkaDeliverer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewKafkaDeliverer creates the deliverer and ensures the OTP topic exists
func NewKafkaDeliverer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*KafkaDeliverer, error) {
	if cfg.OTPTopic == "" {
		return nil, fmt.Errorf("kafka otp topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for otp deliverer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.OTPTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure otp topic %s exists: %w", cfg.OTPTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.OTPTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &KafkaDeliverer{
		logger: logger,
		writer: writer,
		topic:  cfg.OTPTopic,
	}, nil
}

// Deliver publishes the code to the notification topic. The code itself is
// never logged.
func (d *KafkaDeliverer) Deliver(ctx context.Context, accountID string, code string) error {
	jsonValue, err := json.Marshal(notification{
		AccountID: accountID,
		Code:      code,
		IssuedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal otp notification: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(accountID),
		Value: jsonValue,
	}

	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		d.logger.Error("Failed to publish otp notification",
			"topic", d.topic,
			"account_id", accountID,
			"error", err,
		)
		return fmt.Errorf("failed to publish otp notification to %s: %w", d.topic, err)
	}

	d.logger.Debug("Published otp notification", "topic", d.topic, "account_id", accountID)
	return nil
}

// Close shuts down the underlying Kafka writer
func (d *KafkaDeliverer) Close() error {
	d.logger.Info("Closing otp Kafka deliverer", "topic", d.topic)
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("failed to close otp kafka writer for topic %s: %w", d.topic, err)
	}
	return nil
}

// createKafkaTopicIfNotExists creates the topic if not found, retrying partition reads
func createKafkaTopicIfNotExists(conn *kafka.Conn, topicName string, numPartitions int, replicationFactor int, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	log.Info("Checking if Kafka topic exists", "topic", topicName)
	for i := 0; i < 5; i++ { // Retry topic partition read
		partitions, err = conn.ReadPartitions(topicName)
		if err == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying...", "topic", topicName, "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}

	if len(partitions) == 0 {
		log.Info("Kafka topic does not exist or is not accessible, attempting to create it", "topic", topicName)
		topicConfig := kafka.TopicConfig{
			Topic:             topicName,
			NumPartitions:     numPartitions,
			ReplicationFactor: replicationFactor,
		}
		if topicConfig.NumPartitions == 0 {
			topicConfig.NumPartitions = 1
		}
		if topicConfig.ReplicationFactor == 0 {
			topicConfig.ReplicationFactor = 1
		}

		if creationErr := conn.CreateTopics(topicConfig); creationErr != nil {
			return fmt.Errorf("failed to create kafka topic %s: %w", topicName, creationErr)
		}
		log.Info("Successfully created Kafka topic", "topic", topicName)
	} else if err == nil {
		log.Info("Kafka topic already exists", "topic", topicName)
	}
	return nil
}
