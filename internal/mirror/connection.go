package mirror

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"context"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"sync/atomic"
	"time"
)

//go:generate mockgen -destination=mock/broker_mock.go -package=mock . Broker

// Broker — транспорт, через который зеркало получает обновления
type Broker interface {
	Connect(ctx context.Context) error
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Connection владеет единственным подключением к брокеру на всё время жизни процесса.
// Одновременные первые вызовы Connect разделяют одну попытку; неудачная попытка не запоминается.
type Connection struct {
	broker    Broker
	timeout   time.Duration
	group     singleflight.Group
	connected atomic.Bool
}

func NewConnection(b Broker, connectTimeout time.Duration) *Connection {
	return &Connection{
		broker:  b,
		timeout: connectTimeout,
	}
}

func (c *Connection) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		if c.connected.Load() {
			return nil, nil
		}

		// попытка общая для всех ожидающих, поэтому отмена одного запроса её не прерывает
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		logger.Log.Info("connecting to broker")
		if err := c.broker.Connect(cctx); err != nil {
			logger.Log.Error("cannot connect to broker", zap.Error(err))
			return nil, &ConnectionError{Err: err}
		}

		c.connected.Store(true)
		logger.Log.Info("connected to broker")
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return &ConnectionError{Err: ctx.Err()}
	}
}

func (c *Connection) Connected() bool {
	return c.connected.Load()
}

func (c *Connection) Publish(ctx context.Context, topic string, payload []byte) error {
	if !c.connected.Load() {
		return ErrNotConnected
	}
	if err := c.broker.Publish(ctx, topic, payload); err != nil {
		return &PublishError{Topic: topic, Err: err}
	}
	return nil
}

func (c *Connection) Close() error {
	c.connected.Store(false)
	return c.broker.Close()
}
