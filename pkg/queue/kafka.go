package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Publisher is satisfied by KafkaProducer and NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

type KafkaConsumer struct {
	reader *kafka.Reader
	logger logrus.FieldLogger
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaProducer{writer: writer}
}

func NewKafkaConsumer(brokers []string, topic, groupID string, logger logrus.FieldLogger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader, logger: logger}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Subscribe 阻塞读取消息直到 ctx 取消；解码或处理失败只记录日志
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler func(context.Context, Event) error) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.logger.WithError(err).WithField("offset", message.Offset).Warn("Failed to unmarshal message")
			continue
		}

		if err := handler(ctx, event); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"type":   event.Type,
				"offset": message.Offset,
			}).Error("Failed to handle message")
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}
