// Package listener triggers optimization runs from the message bus. Delivery
// is at-least-once: a message is marked consumed only after the pipeline run
// it triggered has completed, and a duplicate delivery just causes an
// idempotent re-run.
package listener

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/E-Rombi/route-go/internal/models"
)

// Runner is the unit of work executed once per trigger event.
type Runner interface {
	Run(ctx context.Context) error
}

type Consumer struct {
	group  sarama.ConsumerGroup
	topics []string
	runner Runner
}

func NewConsumer(cfg models.KafkaConfig, runner Runner) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	if cfg.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second
	}

	brokers := strings.Split(cfg.BrokerList, ",")
	group, err := sarama.NewConsumerGroup(brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:  group,
		topics: []string{cfg.TriggerTopic},
		runner: runner,
	}, nil
}

// Listen consumes trigger events until the context is canceled. Each event
// causes exactly one pipeline invocation; a failed run is logged and the
// event is still marked, since NoSolution-class outcomes are terminal and
// must not be redelivered forever.
func (c *Consumer) Listen(ctx context.Context) error {
	defer func() {
		if err := c.group.Close(); err != nil {
			log.Printf("error closing consumer group: %v", err)
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			log.Printf("consumer group error: %v", err)
		}
	}()

	handler := &triggerHandler{runner: c.runner}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := c.group.Consume(ctx, c.topics, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("error from consumer: %v", err)
			time.Sleep(time.Second)
		}
	}
}

type triggerHandler struct {
	runner Runner
}

func (h *triggerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *triggerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *triggerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		log.Printf("trigger received: topic=%s partition=%d offset=%d", msg.Topic, msg.Partition, msg.Offset)
		if err := h.runner.Run(session.Context()); err != nil {
			// A run's failure is isolated to that run; the listener stays up.
			log.Printf("optimization run failed: %v", err)
		}
		session.MarkMessage(msg, "")
	}
	return nil
}
