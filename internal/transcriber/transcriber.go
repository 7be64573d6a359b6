// Package transcriber defines the contracts for the remote speech and
// cultural-analysis services the pipeline depends on.
package transcriber

import (
	"context"

	"github.com/nmamani/aymara-voices/internal/models"
)

type Transcription struct {
	Text       string
	Confidence float64
	Language   string
	Duration   float64
}

type Analysis struct {
	Keywords             []string
	Category             models.StoryCategory
	CulturalSignificance models.CulturalSignificance
	Title                string
	Description          string
	SpanishTranslation   string
}

// Transcriber turns narrated audio into text. Calls are slow and fallible;
// implementations apply their own generous timeouts.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL, language string) (*Transcription, error)
}

// Analyzer extracts structured cultural metadata from a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*Analysis, error)
}
