package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/metrics"
)

// MessageWriter повторяет часть kafka.Writer, нужную публикатору.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует события в топик Kafka с ключом по пользователю.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaWriter создаёт writer для списка брокеров.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaPublisher создаёт публикатор поверх writer.
func NewKafkaPublisher(writer MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish пишет событие в топик.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.RecommendationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	metrics.ObserveNetworkRequest("kafka", "publish", p.topic, start, err)
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close закрывает writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
