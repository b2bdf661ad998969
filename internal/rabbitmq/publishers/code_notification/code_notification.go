package codenotification

import (
	"context"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/rabbitmq/schema"

	amqp "github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

// RabbitMQ hands notifications over to the mailer instead of sending them inline.
type RabbitMQ struct {
	log        logging.Logger
	channel    channel
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel channel, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (p *RabbitMQ) NotifyCode(ctx context.Context, u user.User, n verification.Notification) error {
	message := &schema.CodeNotification{
		UserID:   int64(u.ID),
		Email:    string(u.Email),
		Username: string(u.Username),
		FullName: u.FullName,
		Purpose:  string(n.Purpose),
		Code:     string(n.Code),
		CodeHash: string(n.CodeHash),
	}
	body, err := message.Marshal()
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", p.routingKey),
		logging.Entry("userId", u.ID),
	)
	return nil
}
