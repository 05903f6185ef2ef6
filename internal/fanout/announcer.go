package fanout

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "station-dashboard/internal/common/errors"
)

// SNSPublisher is satisfied by the shared SNS client.
type SNSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type announcement struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// SNSAnnouncer publishes a {title, count} summary to a topic.
type SNSAnnouncer struct {
	client   SNSPublisher
	topicARN string
}

func NewSNSAnnouncer(client SNSPublisher, topicARN string) *SNSAnnouncer {
	return &SNSAnnouncer{client: client, topicARN: topicARN}
}

func (a *SNSAnnouncer) Announce(ctx context.Context, title string, count int) error {
	body, err := json.Marshal(announcement{Title: title, Count: count})
	if err != nil {
		return err
	}

	_, err = a.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String("notifications.dispatched"),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return apperrors.NewExternalServiceError("sns", err)
	}
	return nil
}
