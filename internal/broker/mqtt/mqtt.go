// Package mqtt доставляет обновления зеркалу через MQTT-брокер
// (шлюз устройств AWS IoT с взаимной TLS-аутентификацией).
package mqtt

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"os"
	"strconv"
	"time"
)

type Options struct {
	Host           string
	Port           int
	ClientIDPrefix string
	KeyPath        string
	CertPath       string
	CAPath         string
	QoS            byte
}

type Broker struct {
	client paho.Client
	qos    byte
}

// New не подключается к брокеру, только готовит клиента
func New(opts Options) (*Broker, error) {
	tlsCfg, err := NewTLSConfig(opts.KeyPath, opts.CertPath, opts.CAPath)
	if err != nil {
		return nil, err
	}

	clientOpts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("ssl://%s:%d", opts.Host, opts.Port)).
		SetClientID(ClientID(opts.ClientIDPrefix, time.Now())).
		SetTLSConfig(tlsCfg).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Log.Warn("mqtt connection lost", zap.Error(err))
		}).
		SetReconnectingHandler(func(_ paho.Client, _ *paho.ClientOptions) {
			logger.Log.Info("mqtt reconnecting")
		})

	return newBroker(paho.NewClient(clientOpts), opts.QoS), nil
}

func newBroker(client paho.Client, qos byte) *Broker {
	return &Broker{client: client, qos: qos}
}

// ClientID добавляет к префиксу время в миллисекундах, чтобы экземпляры не вытесняли друг друга
func ClientID(prefix string, now time.Time) string {
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// NewTLSConfig собирает конфигурацию взаимной TLS из PEM-файлов ключа, сертификата и корневого CA
func NewTLSConfig(keyPath, certPath, caPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load device certificate: %w", err)
	}

	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read root CA: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, errors.New("root CA contains no certificates")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func (b *Broker) Connect(ctx context.Context) error {
	if err := wait(ctx, b.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to mqtt broker: %w", err)
	}
	return nil
}

func (b *Broker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := wait(ctx, b.client.Publish(topic, b.qos, false, payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *Broker) Close() error {
	b.client.Disconnect(250)
	return nil
}

func wait(ctx context.Context, t paho.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
