package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BlobCleanupQueue      = "drive.blob.cleanup"
	BlobCleanupRoutingKey = "drive.blob.cleanup"

	// MaxCleanupAttempts caps redelivery before a task is marked failed.
	MaxCleanupAttempts = 5
)

// BlobCleanupMessage asks the cleanup worker to retry removing a blob whose
// delete failed during a permanent delete.
type BlobCleanupMessage struct {
	TaskID    string `json:"task_id"`
	EntryID   string `json:"entry_id"`
	OwnerID   string `json:"owner_id"`
	BlobKey   string `json:"blob_key"`
	Attempt   int    `json:"attempt"`
	Timestamp int64  `json:"timestamp"`
}

type CleanupService struct {
	channel *amqp.Channel
}

func InitCleanupService(channel *amqp.Channel) *CleanupService {
	_, err := channel.QueueDeclare(
		BlobCleanupQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to declare blob cleanup queue: %v", err))
	}

	return &CleanupService{channel: channel}
}

func (s *CleanupService) PublishBlobCleanup(ctx context.Context, msg BlobCleanupMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal cleanup message: %w", err)
	}

	err = s.channel.PublishWithContext(ctx,
		"",                    // default exchange
		BlobCleanupRoutingKey, // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish cleanup message: %w", err)
	}

	return nil
}
