package rabbitmq

import (
	"context"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection re-dials the broker whenever the underlying connection is lost.
type Connection struct {
	log  logging.Logger
	url  string
	lock sync.RWMutex
	conn *amqp.Connection
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	c := &Connection{log: log, url: url, conn: conn}
	go c.watch(conn)
	return c, nil
}

func (c *Connection) watch(conn *amqp.Connection) {
	ctx := context.Background()
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || reason == nil {
			c.log.Info(ctx, "RabbitMQ connection closed.")
			return
		}
		c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)
			next, err := amqp.Dial(c.url)
			if err != nil {
				c.log.Error(ctx, "RabbitMQ reconnect failed.", logging.Entry("err", err))
				continue
			}
			c.lock.Lock()
			c.conn = next
			c.lock.Unlock()
			conn = next
			c.log.Info(ctx, "RabbitMQ reconnected.")
			break
		}
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	return c.current().Close()
}

// Channel opens a channel that is recreated after broker-side closes
// until Close is called.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}
	channel := &Channel{ch: ch, log: c.log}
	go channel.watch(c)
	return channel, nil
}

type Channel struct {
	log    logging.Logger
	lock   sync.RWMutex
	ch     *amqp.Channel
	closed int32
}

func (ch *Channel) watch(conn *Connection) {
	ctx := context.Background()
	for {
		reason, ok := <-ch.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok || ch.IsClosed() {
			return
		}
		ch.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)
			next, err := conn.current().Channel()
			if err != nil {
				ch.log.Error(ctx, "RabbitMQ channel recreate failed.", logging.Entry("err", err))
				continue
			}
			ch.lock.Lock()
			ch.ch = next
			ch.lock.Unlock()
			ch.log.Info(ctx, "RabbitMQ channel recreated.")
			break
		}
	}
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&ch.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// DeclareQueue declares a durable queue with the given name.
func (ch *Channel) DeclareQueue(name string) error {
	_, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (ch *Channel) PublishWithContext(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	return ch.current().PublishWithContext(ctx, exchange, key, false, false, msg)
}

// Consume keeps delivering messages across channel recreation and stops
// only after Close.
func (ch *Channel) Consume(queue, consumer string) <-chan amqp.Delivery {
	deliveries := make(chan amqp.Delivery)
	go func() {
		defer close(deliveries)
		for {
			d, err := ch.current().Consume(queue, consumer, false, false, false, false, nil)
			if err != nil {
				if ch.IsClosed() {
					return
				}
				ch.log.Error(context.Background(), "RabbitMQ consume failed.", logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				continue
			}
			for msg := range d {
				deliveries <- msg
			}
			// the closed flag may be set shortly after the delivery channel ends
			time.Sleep(reconnectDelay)
			if ch.IsClosed() {
				ch.log.Info(context.Background(), "RabbitMQ channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()
	return deliveries
}
