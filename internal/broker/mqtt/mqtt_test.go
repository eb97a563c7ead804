package mqtt

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func pendingToken() *fakeToken {
	return &fakeToken{done: make(chan struct{})}
}

func (t *fakeToken) Wait() bool { <-t.done; return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	paho.Client

	connectToken paho.Token
	publishToken paho.Token
	published    []published
	disconnected bool
}

func (c *fakeClient) Connect() paho.Token { return c.connectToken }

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	c.published = append(c.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return c.publishToken
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestBroker(t *testing.T) {
	t.Run("connect_and_publish", func(t *testing.T) {
		c := &fakeClient{connectToken: completedToken(nil), publishToken: completedToken(nil)}
		b := newBroker(c, 1)

		require.NoError(t, b.Connect(context.Background()))
		require.NoError(t, b.Publish(context.Background(), "MagicMirror:new-text", []byte(`{"displayText":"hi"}`)))

		require.Len(t, c.published, 1)
		assert.Equal(t, "MagicMirror:new-text", c.published[0].topic)
		assert.Equal(t, byte(1), c.published[0].qos)
		assert.Equal(t, `{"displayText":"hi"}`, string(c.published[0].payload))

		require.NoError(t, b.Close())
		assert.True(t, c.disconnected)
	})

	t.Run("connect_error", func(t *testing.T) {
		boom := errors.New("not authorized")
		b := newBroker(&fakeClient{connectToken: completedToken(boom)}, 0)

		assert.ErrorIs(t, b.Connect(context.Background()), boom)
	})

	t.Run("connect_respects_context", func(t *testing.T) {
		b := newBroker(&fakeClient{connectToken: pendingToken()}, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, b.Connect(ctx), context.DeadlineExceeded)
	})

	t.Run("publish_error", func(t *testing.T) {
		boom := errors.New("publish rejected")
		b := newBroker(&fakeClient{publishToken: completedToken(boom)}, 0)

		assert.ErrorIs(t, b.Publish(context.Background(), "t", []byte("{}")), boom)
	})

	t.Run("publish_respects_context", func(t *testing.T) {
		b := newBroker(&fakeClient{publishToken: pendingToken()}, 0)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, b.Publish(ctx, "t", []byte("{}")), context.Canceled)
	})
}

func TestClientID(t *testing.T) {
	now := time.UnixMilli(1465000000123)
	assert.Equal(t, "AlexaMagicMirror-1465000000123", ClientID("AlexaMagicMirror", now))
}

func writeTestPKI(t *testing.T) (keyPath, certPath, caPath string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "MagicMirrorThing"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	keyPath = filepath.Join(dir, "private.pem.key")
	certPath = filepath.Join(dir, "certificate.pem.crt")
	caPath = filepath.Join(dir, "root-CA.crt")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))
	require.NoError(t, os.WriteFile(caPath, certPEM, 0o600))

	return keyPath, certPath, caPath
}

func TestNewTLSConfig(t *testing.T) {
	keyPath, certPath, caPath := writeTestPKI(t)

	t.Run("valid", func(t *testing.T) {
		cfg, err := NewTLSConfig(keyPath, certPath, caPath)
		require.NoError(t, err)
		assert.Len(t, cfg.Certificates, 1)
		assert.NotNil(t, cfg.RootCAs)
	})

	t.Run("missing_key", func(t *testing.T) {
		_, err := NewTLSConfig(filepath.Join(t.TempDir(), "nope"), certPath, caPath)
		assert.Error(t, err)
	})

	t.Run("missing_ca", func(t *testing.T) {
		_, err := NewTLSConfig(keyPath, certPath, filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("ca_without_certificates", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.crt")
		require.NoError(t, os.WriteFile(bad, []byte("not a certificate"), 0o600))

		_, err := NewTLSConfig(keyPath, certPath, bad)
		assert.Error(t, err)
	})

	t.Run("new_broker", func(t *testing.T) {
		b, err := New(Options{
			Host:           "localhost",
			Port:           8883,
			ClientIDPrefix: "AlexaMagicMirror",
			KeyPath:        keyPath,
			CertPath:       certPath,
			CAPath:         caPath,
		})
		require.NoError(t, err)
		assert.NotNil(t, b.client)
	})
}
