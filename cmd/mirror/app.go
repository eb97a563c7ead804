package main

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/imagesearch"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/mirror"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/models"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/skill"
	"context"
	"encoding/json"
	"errors"
	"go.uber.org/zap"
	"net/http"
)

type router interface {
	Route(ctx context.Context, req *models.Request) (*models.Response, error)
}

type brokerState interface {
	Connected() bool
}

type app struct {
	skill  router
	broker brokerState
}

func newApp(r router, b brokerState) *app {
	return &app{skill: r, broker: b}
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.health)
	mux.Handle("/", recoverer(gzipMiddleware(a.webhook)))
	return logger.RequestLogger(mux)
}

func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Log.Debug("got request with bad method", zap.String("method", r.Method))

		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	logger.Log.Debug("decoding request")
	var req models.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		logger.Log.Debug("cannot decode request JSON body", zap.Error(err))

		fail(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.skill.Route(ctx, &req)
	if err != nil {
		status := statusFor(err)
		logger.Log.Error("cannot process request",
			zap.String("type", req.Request.Type),
			zap.Int("status", status),
			zap.Error(err),
		)

		fail(w, status, err)
		return
	}

	// SessionEndedRequest: платформа не ждёт тела ответа
	if resp == nil {
		logger.Log.Debug("sending empty HTTP 200 response")
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		logger.Log.Debug("error encoding response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response")
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	state := "idle"
	if a.broker.Connected() {
		state = "connected"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok", "broker": state}); err != nil {
		logger.Log.Debug("error encoding health response", zap.Error(err))
	}
}

func statusFor(err error) int {
	var (
		invalidIntent *skill.InvalidIntentError
		unsupported   *skill.UnsupportedRequestError
		missingSlot   *skill.MissingSlotError
		connErr       *mirror.ConnectionError
		pubErr        *mirror.PublishError
		searchErr     *imagesearch.SearchError
	)

	switch {
	case errors.As(err, &invalidIntent), errors.As(err, &unsupported), errors.As(err, &missingSlot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, skill.ErrInvalidApplication):
		return http.StatusForbidden
	case errors.As(err, &connErr), errors.As(err, &pubErr), errors.As(err, &searchErr),
		errors.Is(err, mirror.ErrNotConnected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, status int, err error) {
	http.Error(w, "Exception: "+err.Error(), status)
}
