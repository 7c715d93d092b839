package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// publishTimeout caps how long a request waits on the broker after its commit.
const publishTimeout = 2 * time.Second

// Producer publishes delivery events to a Kafka topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	timeout  time.Duration
	logger   logx.Logger
}

// NewProducer creates a sync producer. It returns (nil, nil) when Kafka is not configured.
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	p, err := newSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, err
	}
	return newProducer(logger, p, topic), nil
}

// producerConfig keeps a degraded broker from stalling a send for long:
// one retry and short network timeouts.
func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Timeout = publishTimeout
	cfg.Producer.Retry.Max = 1
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Metadata.Retry.Max = 1
	cfg.Net.DialTimeout = publishTimeout
	cfg.Net.WriteTimeout = publishTimeout
	cfg.Net.ReadTimeout = publishTimeout
	return cfg
}

func newProducer(logger logx.Logger, p sarama.SyncProducer, topic string) *Producer {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Producer{producer: p, topic: topic, timeout: publishTimeout, logger: logger}
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

// Publish sends ev keyed by its delivery id so events of one delivery stay ordered.
// It returns once ctx ends or the publish timeout passes, even if the broker has not
// answered; the send itself is then finished in the background by sarama.
func (p *Producer) Publish(ctx context.Context, ev domain.DeliveryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(FromDomain(ev))
	if err != nil {
		return fmt.Errorf("marshal delivery event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(strconv.FormatInt(ev.DeliveryID, 10)),
			Value: sarama.ByteEncoder(b),
		})
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	var res sendResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return fmt.Errorf("send delivery event %s: %w", ev.ID, ctx.Err())
	}
	if res.err != nil {
		return fmt.Errorf("send delivery event %s: %w", ev.ID, res.err)
	}

	p.logger.Debug("kafka event published",
		logx.String("topic", p.topic),
		logx.String("event_id", ev.ID),
		logx.Int("partition", int(res.partition)),
		logx.Int64("offset", res.offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
