// Package imagesearch ищет изображения через Google Custom Search JSON API.
package imagesearch

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/models"
	"context"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"strconv"
	"time"
)

const searchPath = "/customsearch/v1"

// SearchError — провайдер поиска не ответил или ответил ошибкой
type SearchError struct {
	Term string
	Err  error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("image search for %q failed: %v", e.Term, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

type Options struct {
	APIKey   string
	EngineID string
	BaseURL  string
	Results  int
	Timeout  time.Duration
}

type Client struct {
	http     *resty.Client
	apiKey   string
	engineID string
	results  int
}

type searchResponse struct {
	Items []item `json:"items"`
}

type item struct {
	Link  string    `json:"link"`
	Mime  string    `json:"mime"`
	Image itemImage `json:"image"`
}

type itemImage struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	ByteSize        int    `json:"byteSize"`
	ThumbnailLink   string `json:"thumbnailLink"`
	ThumbnailWidth  int    `json:"thumbnailWidth"`
	ThumbnailHeight int    `json:"thumbnailHeight"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func New(opts Options) (*Client, error) {
	if opts.APIKey == "" || opts.EngineID == "" {
		return nil, errors.New("image search: API key and engine ID are required")
	}

	results := opts.Results
	if results <= 0 {
		results = 10
	}

	return &Client{
		http: resty.New().
			SetBaseURL(opts.BaseURL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		apiKey:   opts.APIKey,
		engineID: opts.EngineID,
		results:  results,
	}, nil
}

// Search возвращает изображения в порядке выдачи; отсутствие результатов не ошибка.
// Тело ответа всегда разбирается как JSON: страница прокси с кодом 200 даёт SearchError
func (c *Client) Search(ctx context.Context, term string) ([]models.Image, error) {
	var (
		result  searchResponse
		failure errorResponse
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":        c.apiKey,
			"cx":         c.engineID,
			"q":          term,
			"searchType": "image",
			"num":        strconv.Itoa(c.results),
		}).
		SetResult(&result).
		SetError(&failure).
		ForceContentType("application/json").
		Get(searchPath)
	if err != nil {
		return nil, &SearchError{Term: term, Err: err}
	}

	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &SearchError{
			Term: term,
			Err:  fmt.Errorf("provider returned %d: %s", resp.StatusCode(), msg),
		}
	}

	images := make([]models.Image, 0, len(result.Items))
	for _, it := range result.Items {
		if it.Link == "" {
			continue
		}
		images = append(images, models.Image{
			URL:    it.Link,
			Type:   it.Mime,
			Width:  it.Image.Width,
			Height: it.Image.Height,
			Size:   it.Image.ByteSize,
			Thumbnail: models.Thumbnail{
				URL:    it.Image.ThumbnailLink,
				Width:  it.Image.ThumbnailWidth,
				Height: it.Image.ThumbnailHeight,
			},
		})
	}

	logger.Log.Debug("found images", zap.String("term", term), zap.Int("count", len(images)))
	return images, nil
}
