package consumers

import (
	"context"
	"exzly/internal/app/deps"
	dl "exzly/internal/core/domain/logging"
	codenotification "exzly/internal/rabbitmq/consumers/code_notification"
	"sync"
)

func initCodeNotificationConsumer(deps *deps.Deps) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqCodeNotificationQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not create RabbitMQ queue.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := codenotification.New(deps.Logger, deps.EmailSender)
	deliveries := rabbitmqChannel.Consume(queue, "mailer")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Consume(ctx, deliveries)
	}()

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() {
		rabbitmqChannel.Close()
		cancel()
		wg.Wait()
		deps.Logger.Info(context.Background(), "Consumer has stopped.", dl.Entry("queue", queue))
	}
}

func InitConsumers(deps *deps.Deps) func() {
	shutdownCodeNotificationConsumer := initCodeNotificationConsumer(deps)

	return func() {
		shutdownCodeNotificationConsumer()
	}
}
