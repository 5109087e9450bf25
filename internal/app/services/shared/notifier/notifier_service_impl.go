package notifier

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	notifierServiceInstance contracts.MessagePublisher
	onceNotifierService     sync.Once
)

type notifierService struct {
	Channel *amqp091.Channel
	Log     *zap.Logger
}

func NewNotifierService(rabbitMQConnection *amqp091.Connection, logger *zap.Logger) (contracts.MessagePublisher, error) {
	var initErr error
	onceNotifierService.Do(func() {
		channel, err := rabbitMQConnection.Channel()
		if err != nil {
			initErr = err
			return
		}
		notifierServiceInstance = &notifierService{
			Channel: channel,
			Log:     logger,
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return notifierServiceInstance, nil
}

func (s *notifierService) Publish(ctx context.Context, queueName string, body interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("notifierService.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueKey, queueName),
	)

	payload, err := json.Marshal(body)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	_, err = s.Channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         payload,
		DeliveryMode: amqp091.Persistent,
	}

	err = s.Channel.PublishWithContext(ctx, "", queueName, false, false, message)
	if err != nil {
		s.Log.Error("notifierService.Publish error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, queueName),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	s.Log.Info("notifierService.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueKey, queueName),
	)
	return nil
}
