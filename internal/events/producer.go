// Package events publishes story lifecycle notifications to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is the pipeline-facing contract. Publishing is best-effort:
// callers log failures instead of failing the job.
type Publisher interface {
	PublishStoryPublished(ctx context.Context, event StoryPublished) error
	Close() error
}

type StoryPublished struct {
	StoryID     string    `json:"story_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
}

type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}
}

func (p *Producer) PublishStoryPublished(ctx context.Context, event StoryPublished) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal story published event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.StoryID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
