package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-drive-service/infra"
	"github.com/tnqbao/gau-drive-service/infra/produce"
	"github.com/tnqbao/gau-drive-service/repository"
)

// CleanupConsumer retries blob removals that failed during a permanent
// delete. Metadata is already gone by the time a message lands here; the
// only job left is reconciling the blob store.
type CleanupConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *CleanupConsumer {
	return &CleanupConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.BlobCleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register blob cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening for blob cleanup jobs on queue: %s", produce.BlobCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleBlobCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handleBlobCleanup(ctx context.Context, msg amqp.Delivery) {
	var payload produce.BlobCleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Invalid task id %q", payload.TaskID)
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Removing blob %s (attempt %d)", payload.BlobKey, payload.Attempt)

	if err := c.infra.Minio.Delete(ctx, payload.BlobKey); err != nil {
		c.retryOrFail(ctx, taskID, payload, err)
		_ = msg.Ack(false)
		return
	}

	if err := c.repository.CleanupTaskRepo.MarkDone(taskID, payload.Attempt); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Blob %s removed but task %s not marked done", payload.BlobKey, taskID)
	}
	_ = msg.Ack(false)
}

// retryOrFail republishes with a bumped attempt counter until the cap, then
// marks the task failed for manual reconciliation.
func (c *CleanupConsumer) retryOrFail(ctx context.Context, taskID uuid.UUID, payload produce.BlobCleanupMessage, cause error) {
	if err := c.repository.CleanupTaskRepo.RecordAttempt(taskID, payload.Attempt, cause.Error()); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to record attempt for task %s", taskID)
	}

	if payload.Attempt >= produce.MaxCleanupAttempts {
		c.infra.Logger.ErrorWithContextf(ctx, cause, "[Cleanup Consumer] Giving up on blob %s after %d attempts", payload.BlobKey, payload.Attempt)
		if err := c.repository.CleanupTaskRepo.MarkFailed(taskID, payload.Attempt, cause.Error()); err != nil {
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to mark task %s failed", taskID)
		}
		return
	}

	c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Blob %s removal failed (attempt %d), requeuing: %v", payload.BlobKey, payload.Attempt, cause)

	// Small delay keeps a flapping backend from being hammered.
	time.Sleep(time.Duration(payload.Attempt) * time.Second)

	payload.Attempt++
	if err := c.infra.Produce.CleanupService.PublishBlobCleanup(ctx, payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to republish cleanup for %s", payload.BlobKey)
	}
}
