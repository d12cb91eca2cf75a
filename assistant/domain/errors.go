package domain

import "errors"

var (
	// ErrCapabilityUnavailable means no AI key is configured; generation is disabled.
	ErrCapabilityUnavailable = errors.New("AI capability unavailable: API key missing")
	ErrInvalidInput          = errors.New("invalid input")
	// ErrInvalidAPIKey means the AI service rejected the configured key.
	ErrInvalidAPIKey     = errors.New("AI service rejected the API key")
	ErrMalformedResponse = errors.New("malformed AI response")
	ErrGenerationFailed  = errors.New("content generation failed")
)

// UserMessage maps an error to the text shown in an alert.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCapabilityUnavailable):
		return "Impossibile generare contenuto: API key mancante."
	case errors.Is(err, ErrInvalidAPIKey):
		return "La chiave API di Gemini non è valida. Controlla la configurazione."
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMalformedResponse):
		return err.Error()
	case errors.Is(err, ErrGenerationFailed):
		return "Errore Gemini: " + err.Error()
	default:
		return "Errore sconosciuto durante la generazione del contenuto."
	}
}
