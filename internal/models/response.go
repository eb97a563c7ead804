package models

const (
	ResponseVersion = "1.0"
	cardPrefix      = "SessionSpeechlet - "
)

func BuildSpeechletResponse(title, output, repromptText string, shouldEndSession bool) SpeechletResponse {
	return SpeechletResponse{
		OutputSpeech: OutputSpeech{
			Type: SpeechTypePlainText,
			Text: output,
		},
		Card: Card{
			Type:    CardTypeSimple,
			Title:   cardPrefix + title,
			Content: cardPrefix + output,
		},
		Reprompt: Reprompt{
			OutputSpeech: OutputSpeech{
				Type: SpeechTypePlainText,
				Text: repromptText,
			},
		},
		ShouldEndSession: shouldEndSession,
	}
}

// BuildResponse оборачивает ответ в конверт версии 1.0, атрибуты сессии передаются как есть
func BuildResponse(sessionAttributes map[string]any, speechlet SpeechletResponse) *Response {
	return &Response{
		Version:           ResponseVersion,
		SessionAttributes: sessionAttributes,
		Response:          speechlet,
	}
}
