package mirror

import (
	"errors"
	"fmt"
)

// ErrNotConnected возвращается при публикации до успешного Connect
var ErrNotConnected = errors.New("mirror: broker is not connected")

// ConnectionError — подключение к брокеру не удалось или не уложилось в таймаут
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mirror: connect failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PublishError — брокер отклонил публикацию или не ответил вовремя
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("mirror: publish to %s failed: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
