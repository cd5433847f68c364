package events

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/yeremiapane/restaurant-api/utils"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to one topic, keyed by event key so one order's events stay ordered.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		// writes return immediately; failures reach ErrorLogger
		Async:       true,
		MaxAttempts: 3,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			utils.ErrorLogger.Errorf("kafka producer error: "+msg, args...)
		}),
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) {
	value, err := json.Marshal(evt)
	if err != nil {
		utils.ErrorLogger.Errorf("kafka: marshal %s failed: %v", evt.Event, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(evt.Event)},
		},
	}
	// the request context may be cancelled right after the handler returns
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		utils.ErrorLogger.Errorf("kafka: publish %s failed: %v", evt.Event, err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
