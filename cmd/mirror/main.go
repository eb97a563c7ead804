package main

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/broker/mqtt"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/broker/redis"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/config"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/imagesearch"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/mirror"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/skill"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	if err := parseFlags(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(); err != nil {
		panic(err)
	}
}

func gzipMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ow := w

		acceptEncoding := r.Header.Get("Accept-Encoding")
		supportGzip := strings.Contains(acceptEncoding, "gzip")

		if supportGzip {
			cw := newCompressWriter(w)
			ow = cw
			defer func(cw *compressWriter) {
				if err := cw.Close(); err != nil {
					logger.Log.Debug("compressWriterError", zap.Error(err))
				}
			}(cw)
		}

		contentEncoding := r.Header.Get("Content-Encoding")

		sendsGzip := strings.Contains(contentEncoding, "gzip")
		if sendsGzip {
			cr, err := newCompressReader(r.Body)
			if err != nil {
				logger.Log.Debug("newCompressReaderError", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			r.Body = cr
			defer func(cr *compressReader) {
				if err := cr.Close(); err != nil {
					logger.Log.Debug("closeCompressReaderError", zap.Error(err))
				}
			}(cr)
		}

		h.ServeHTTP(ow, r)
	}
}

// recoverer — последний рубеж: паника в обработчике превращается в ответ 500
func recoverer(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("panic while handling request", zap.Any("panic", rec), zap.Stack("stack"))
				http.Error(w, fmt.Sprintf("Exception: %v", rec), http.StatusInternalServerError)
			}
		}()
		h.ServeHTTP(w, r)
	})
}

func newBroker(c *config.Config) (mirror.Broker, error) {
	switch c.Broker {
	case config.BrokerRedis:
		return redis.New(redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		}), nil
	case config.BrokerMQTT:
		return mqtt.New(mqtt.Options{
			Host:           c.MQTTHost,
			Port:           c.MQTTPort,
			ClientIDPrefix: c.MQTTClientIDPrefix,
			KeyPath:        c.MQTTKeyPath,
			CertPath:       c.MQTTCertPath,
			CAPath:         c.MQTTCAPath,
			QoS:            byte(c.MQTTQoS),
		})
	default:
		return nil, fmt.Errorf("unknown broker %q", c.Broker)
	}
}

func run() error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	logger.Log.Info("configuration loaded", zap.String("config", cfg.String()))

	b, err := newBroker(cfg)
	if err != nil {
		return err
	}

	conn := mirror.NewConnection(b, cfg.ConnectTimeout)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Log.Error("cannot close broker connection", zap.Error(err))
		}
	}()

	publisher := mirror.NewPublisher(conn, mirror.Topics{
		Text:   cfg.TopicText,
		Images: cfg.TopicImages,
	}, cfg.PublishTimeout)

	searcher, err := imagesearch.New(imagesearch.Options{
		APIKey:   cfg.SearchAPIKey,
		EngineID: cfg.SearchEngineID,
		BaseURL:  cfg.SearchBaseURL,
		Results:  cfg.SearchResults,
		Timeout:  cfg.SearchTimeout,
	})
	if err != nil {
		return err
	}

	appInstance := newApp(skill.New(publisher, searcher, cfg.ApplicationID), conn)

	srv := &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           appInstance.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Running server", zap.String("address", cfg.RunAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
