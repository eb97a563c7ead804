package mirror

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"time"
)

const (
	DefaultTopicText   = "MagicMirror:new-text"
	DefaultTopicImages = "MagicMirror:new-images"

	// FallbackText показывается, когда платформа не распознала текст
	FallbackText = "Oops. I missed it. Try again."
)

type TextUpdate struct {
	DisplayText string `json:"displayText"`
	Timestamp   int64  `json:"timestamp"`
}

type ImagesUpdate struct {
	Images      []models.Image `json:"images"`
	DisplayText *string        `json:"displayText"`
	Timestamp   int64          `json:"timestamp"`
}

type Topics struct {
	Text   string
	Images string
}

// Publisher отправляет обновления зеркалу через общее подключение
type Publisher struct {
	conn           *Connection
	topics         Topics
	publishTimeout time.Duration
	now            func() time.Time
}

func NewPublisher(conn *Connection, topics Topics, publishTimeout time.Duration) *Publisher {
	if topics.Text == "" {
		topics.Text = DefaultTopicText
	}
	if topics.Images == "" {
		topics.Images = DefaultTopicImages
	}
	return &Publisher{
		conn:           conn,
		topics:         topics,
		publishTimeout: publishTimeout,
		now:            time.Now,
	}
}

func (p *Publisher) Connect(ctx context.Context) error {
	return p.conn.Connect(ctx)
}

// DisplayText публикует текст всегда, при nil — FallbackText
func (p *Publisher) DisplayText(ctx context.Context, text *string) error {
	displayText := FallbackText
	if text != nil {
		displayText = *text
	}

	return p.publish(ctx, p.topics.Text, TextUpdate{
		DisplayText: displayText,
		Timestamp:   p.now().UnixMilli(),
	})
}

// ShowImages ничего не публикует для пустого списка
func (p *Publisher) ShowImages(ctx context.Context, images []models.Image, searchTerm *string) error {
	if len(images) == 0 {
		logger.Log.Debug("no images to publish, skipping")
		return nil
	}

	return p.publish(ctx, p.topics.Images, ImagesUpdate{
		Images:      images,
		DisplayText: searchTerm,
		Timestamp:   p.now().UnixMilli(),
	})
}

func (p *Publisher) publish(ctx context.Context, topic string, update any) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("cannot encode update: %w", err)
	}

	if p.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.publishTimeout)
		defer cancel()
	}

	if err := p.conn.Publish(ctx, topic, payload); err != nil {
		logger.Log.Error("publish failed", zap.String("topic", topic), zap.Error(err))
		return err
	}

	logger.Log.Debug("published",
		zap.String("topic", topic),
		zap.ByteString("data", payload),
	)
	return nil
}
