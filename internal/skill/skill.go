package skill

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/logger"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/mirror"
	"bitbucket.org/sotavant/magic-mirror-skill/internal/models"
	"context"
	"fmt"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock/skill_mock.go -package=mock . Publisher,ImageSearcher

const (
	IntentShowText   = "ShowText"
	IntentShowImages = "ShowImages"

	SlotDisplayText = "displayText"
	SlotSearchTerm  = "searchTerm"
)

const (
	welcomeTitle    = "Welcome"
	welcomeSpeech   = "Welcome to the Magic Mirror App. Ask me to show you something."
	welcomeReprompt = "Try something like: Tell mirror to show my sharks."

	showTextTitle    = "Magic Mirror - Say Something"
	showTextReprompt = "I didn't hear you. What would you like me to make your mirror say?"

	showImagesTitle    = "Magic Mirror - Show Me Something"
	showImagesReprompt = "I didn't quite hear you right. What would you like your mirror to show you?"
)

type Publisher interface {
	Connect(ctx context.Context) error
	DisplayText(ctx context.Context, text *string) error
	ShowImages(ctx context.Context, images []models.Image, searchTerm *string) error
}

type ImageSearcher interface {
	Search(ctx context.Context, term string) ([]models.Image, error)
}

// Skill разбирает запросы платформы и передаёт их зеркалу
type Skill struct {
	publisher     Publisher
	searcher      ImageSearcher
	applicationID string
}

// New создаёт навык; пустой applicationID отключает проверку отправителя
func New(p Publisher, s ImageSearcher, applicationID string) *Skill {
	return &Skill{
		publisher:     p,
		searcher:      s,
		applicationID: applicationID,
	}
}

// Route возвращает nil-ответ без ошибки для SessionEndedRequest: платформа не ждёт тела
func (s *Skill) Route(ctx context.Context, req *models.Request) (*models.Response, error) {
	log := logger.Log.With(
		zap.String("requestId", req.Request.RequestID),
		zap.String("sessionId", req.Session.SessionID),
	)

	appID := req.Session.Application.ApplicationID
	log.Debug("routing request",
		zap.String("applicationId", appID),
		zap.String("type", req.Request.Type),
	)

	if s.applicationID != "" && appID != s.applicationID {
		return nil, fmt.Errorf("%w: %s", ErrInvalidApplication, appID)
	}

	if req.Session.New {
		log.Info("session started")
	}

	switch req.Request.Type {
	case models.TypeLaunchRequest:
		log.Info("launch")
		return welcome(), nil

	case models.TypeIntentRequest:
		return s.onIntent(ctx, log, req.Request.Intent)

	case models.TypeSessionEndedRequest:
		log.Info("session ended", zap.String("reason", req.Request.Reason))
		return nil, nil

	default:
		return nil, &UnsupportedRequestError{Type: req.Request.Type}
	}
}

func (s *Skill) onIntent(ctx context.Context, log *zap.Logger, intent *models.Intent) (*models.Response, error) {
	if intent == nil {
		return nil, &InvalidIntentError{}
	}

	log.Info("intent", zap.String("name", intent.Name))

	switch intent.Name {
	case IntentShowText:
		return s.showText(ctx, intent)
	case IntentShowImages:
		return s.showImages(ctx, intent)
	default:
		return nil, &InvalidIntentError{Name: intent.Name}
	}
}

func welcome() *models.Response {
	return models.BuildResponse(map[string]any{},
		models.BuildSpeechletResponse(welcomeTitle, welcomeSpeech, welcomeReprompt, false))
}

func (s *Skill) showText(ctx context.Context, intent *models.Intent) (*models.Response, error) {
	text := intent.SlotValue(SlotDisplayText)

	if err := s.publisher.Connect(ctx); err != nil {
		return nil, err
	}
	if err := s.publisher.DisplayText(ctx, text); err != nil {
		return nil, fmt.Errorf("cannot display text: %w", err)
	}

	// без распознанного текста зеркало показывает запасную фразу, её и проговариваем
	speech := "I told your mirror to say " + displayedText(text)

	return models.BuildResponse(map[string]any{},
		models.BuildSpeechletResponse(showTextTitle, speech, showTextReprompt, true)), nil
}

func (s *Skill) showImages(ctx context.Context, intent *models.Intent) (*models.Response, error) {
	term := intent.SlotValue(SlotSearchTerm)
	if term == nil {
		return nil, &MissingSlotError{Intent: intent.Name, Slot: SlotSearchTerm}
	}

	images, err := s.searcher.Search(ctx, *term)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Connect(ctx); err != nil {
		return nil, err
	}
	// пустой список публикатор пропускает, ответ всё равно успешный
	if err := s.publisher.ShowImages(ctx, images, term); err != nil {
		return nil, fmt.Errorf("cannot show images: %w", err)
	}

	speech := "I told your mirror to show you images of " + *term

	return models.BuildResponse(map[string]any{},
		models.BuildSpeechletResponse(showImagesTitle, speech, showImagesReprompt, true)), nil
}

func displayedText(text *string) string {
	if text == nil {
		return mirror.FallbackText
	}
	return *text
}
