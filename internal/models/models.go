package models

const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"
)

const (
	SpeechTypePlainText = "PlainText"
	CardTypeSimple      = "Simple"
)

// Request описывает запрос голосовой платформы
// https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type Request struct {
	Version string      `json:"version"`
	Session Session     `json:"session"`
	Request RequestBody `json:"request"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

// RequestBody описывает LaunchRequest, IntentRequest и SessionEndedRequest
type RequestBody struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp,omitempty"`
	Locale    string  `json:"locale,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Intent    *Intent `json:"intent,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot.Value равен nil, если платформа не распознала значение
type Slot struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// SlotValue возвращает значение слота или nil, если слот или его значение отсутствуют.
// Пустая строка считается значением.
func (i *Intent) SlotValue(name string) *string {
	if i == nil {
		return nil
	}
	slot, ok := i.Slots[name]
	if !ok {
		return nil
	}
	return slot.Value
}

// Response описывает ответ сервера
type Response struct {
	Version           string            `json:"version"`
	SessionAttributes map[string]any    `json:"sessionAttributes"`
	Response          SpeechletResponse `json:"response"`
}

type SpeechletResponse struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	Card             Card         `json:"card"`
	Reprompt         Reprompt     `json:"reprompt"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Image описывает найденное изображение, которое зеркало должно показать
type Image struct {
	URL       string    `json:"url"`
	Type      string    `json:"type,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Size      int       `json:"size,omitempty"`
	Thumbnail Thumbnail `json:"thumbnail"`
}

type Thumbnail struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}
