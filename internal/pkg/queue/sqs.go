package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/breaker"
	"github.com/sony/gobreaker"
)

// SQSClient is the subset of the AWS SQS client used for publishing.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends events to one queue through a circuit breaker.
type SQSPublisher struct {
	client   SQSClient
	queueURL string
	cb       *gobreaker.CircuitBreaker
}

func NewSQSPublisher(client SQSClient, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		cb:       breaker.New("sqs-publisher"),
	}
}

func (p *SQSPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return p.client.SendMessage(ctx, input)
	})
	if err != nil {
		return fmt.Errorf("failed to send %s event: %w", event.Type, err)
	}
	return nil
}
