package spool

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSSpool stores payloads in an SQS queue. A popped payload is deleted on
// receipt, so a consumer that fails mid-delivery must re-push it.
type SQSSpool struct {
	client   *sqs.Client
	queueUrl string
}

// NewSQSSpool creates a spool over the given queue URL.
func NewSQSSpool(client *sqs.Client, queueUrl string) *SQSSpool {
	return &SQSSpool{client: client, queueUrl: queueUrl}
}

// Push sends the payload to the queue.
func (s *SQSSpool) Push(ctx context.Context, payload []byte) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(payload)),
	}
	_, err := s.client.SendMessage(ctx, input)
	return err
}

// Pop long-polls for one message, deletes it, and returns its body.
func (s *SQSSpool) Pop(ctx context.Context, wait time.Duration) ([]byte, error) {
	waitSeconds := int32(wait / time.Second)
	if waitSeconds > 20 {
		waitSeconds = 20 // SQS long-poll ceiling
	}
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueUrl),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     waitSeconds,
	}
	resp, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(resp.Messages) == 0 {
		return nil, ErrEmpty
	}

	msg := resp.Messages[0]
	if msg.ReceiptHandle != nil {
		del := &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(s.queueUrl),
			ReceiptHandle: msg.ReceiptHandle,
		}
		if _, err := s.client.DeleteMessage(ctx, del); err != nil {
			return nil, err
		}
	}

	body := ""
	if msg.Body != nil {
		body = *msg.Body
	}
	return []byte(body), nil
}
