package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/compass-ai/compass/pkg/logger"
	"github.com/compass-ai/compass/pkg/store"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InvalidateMsg is published by the storage collaborator whenever it commits
// a change to a graph.
type InvalidateMsg struct {
	GraphID string `json:"graph_id"`
	Reason  string `json:"reason,omitempty"`
}

// ConsumeInvalidations drains the invalidation queue and evicts the affected
// snapshots from the cache until ctx is done. Malformed messages go through
// the retry/DLQ cycle instead of poisoning the queue.
func ConsumeInvalidations(ctx context.Context, conn *amqp.Connection, cache *store.Cache) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		InvalidateQueue,
		InvalidateQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Info("[Queue] Listening for invalidations", "queue", InvalidateQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Queue] Stopping invalidation consumer")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("[Queue] Message channel closed", "queue", InvalidateQueue)
				return nil
			}

			if err := processInvalidation(cache, msg.Body); err != nil {
				logger.Error("[Queue] Failed to process invalidation", "err", err)
				handleProcessingError(ch, msg, InvalidateQueue)
				continue
			}
			if err := msg.Ack(false); err != nil {
				logger.Error("[Queue] Failed to ack message", "err", err)
			}
		}
	}
}

func processInvalidation(cache *store.Cache, body []byte) error {
	var m InvalidateMsg
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("malformed invalidation message: %w", err)
	}
	if m.GraphID == "" {
		return fmt.Errorf("invalidation message without graph_id")
	}

	cache.Evict(m.GraphID)
	logger.Info("[Queue] Invalidated snapshot", "graph_id", m.GraphID, "reason", m.Reason)
	return nil
}

// handleProcessingError routes a failed message to the retry queue, or to
// the DLQ once it exhausts its retry budget.
func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= maxRetries {
		dlqName := queueName + "_dlq"
		logger.Info("[Queue] Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
