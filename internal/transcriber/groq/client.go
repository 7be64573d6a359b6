// Package groq implements the transcriber contracts against the Groq API:
// Whisper for speech-to-text and Llama in JSON mode for cultural analysis.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nmamani/aymara-voices/internal/config"
	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/transcriber"
	"github.com/nmamani/aymara-voices/pkg/logger"
)

const analysisPrompt = `Analiza este relato oral aymara y extrae informacion cultural.

Transcripcion (en Aymara/Espanol):
%s

Por favor analiza y proporciona:
1. Palabras clave culturales (en espanol)
2. Categoria del relato: elige UNA de [ritual, legend, personal_story, historical, myth, other]
3. Nivel de significancia cultural: elige UNO de [high, medium, low]
4. Un titulo descriptivo (en espanol, maximo 200 caracteres)
5. Una descripcion breve (en espanol, maximo 1000 caracteres)
6. Traduccion al espanol si el texto esta en aymara

Devuelve SOLO un objeto JSON con esta estructura exacta:
{
    "keywords": ["palabra1", "palabra2"],
    "category": "ritual|legend|personal_story|historical|myth|other",
    "cultural_significance": "high|medium|low",
    "title": "Titulo del relato",
    "description": "Resumen breve",
    "spanish_translation": "Traduccion al espanol (opcional)"
}`

const systemPrompt = "Eres un experto en cultura, idioma y tradiciones orales aymaras. " +
	"Especializas en analizar y categorizar relatos culturales."

type Client struct {
	cfg        *config.GroqConfig
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg *config.GroqConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: log,
	}
}

// Transcribe downloads the audio and runs it through Whisper. Aymara is
// not in Whisper's supported set, so "ay" goes through auto-detection
// first with a Spanish fallback.
func (c *Client) Transcribe(ctx context.Context, audioURL, language string) (*transcriber.Transcription, error) {
	audio, err := c.downloadAudio(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	if language == "ay" || language == "" {
		result, err := c.transcribeBytes(ctx, audio, "")
		if err == nil {
			return result, nil
		}
		c.logger.Warnf("auto-detect transcription failed, retrying with spanish: %v", err)
		return c.transcribeBytes(ctx, audio, "es")
	}
	return c.transcribeBytes(ctx, audio, language)
}

func (c *Client) downloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid audio url: %v", models.ErrUpstream, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download audio: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: audio download returned status %d", models.ErrUpstream, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read audio body: %v", models.ErrUpstream, err)
	}
	return data, nil
}

type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

func (c *Client) transcribeBytes(ctx context.Context, audio []byte, language string) (*transcriber.Transcription, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	filePart, err := mw.CreateFormFile("file", "audio.webm")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	if _, err = filePart.Write(audio); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	_ = mw.WriteField("model", c.cfg.WhisperModel)
	_ = mw.WriteField("response_format", "verbose_json")
	if language != "" {
		_ = mw.WriteField("language", language)
	}
	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.cfg.BaseURL+"/audio/transcriptions",
		&body,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: transcription request failed: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: transcription returned status %d: %s", models.ErrUpstream, resp.StatusCode, msg)
	}

	var wr whisperResponse
	if err = json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode transcription: %v", models.ErrUpstream, err)
	}

	detected := wr.Language
	if language != "" {
		detected = language
	}
	return &transcriber.Transcription{
		Text: wr.Text,
		// Whisper does not report a confidence score.
		Confidence: 1.0,
		Language:   detected,
		Duration:   wr.Duration,
	}, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type analysisPayload struct {
	Keywords             []string `json:"keywords"`
	Category             string   `json:"category"`
	CulturalSignificance string   `json:"cultural_significance"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	SpanishTranslation   string   `json:"spanish_translation"`
}

// Analyze runs the transcript through Llama in JSON mode and maps the
// response onto the story metadata enums, defaulting unknown values.
func (c *Client) Analyze(ctx context.Context, transcript string) (*transcriber.Analysis, error) {
	chatReq := chatRequest{
		Model: c.cfg.LlamaModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(analysisPrompt, transcript)},
		},
		Temperature: 0.4,
		MaxTokens:   1500,
	}
	chatReq.ResponseFormat.Type = "json_object"

	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.cfg.BaseURL+"/chat/completions",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: analysis request failed: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: analysis returned status %d: %s", models.ErrUpstream, resp.StatusCode, msg)
	}

	var cr chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode analysis: %v", models.ErrUpstream, err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("%w: analysis returned no choices", models.ErrUpstream)
	}

	var payload analysisPayload
	if err = json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("%w: analysis returned malformed json: %v", models.ErrUpstream, err)
	}

	return &transcriber.Analysis{
		Keywords:             payload.Keywords,
		Category:             mapCategory(payload.Category),
		CulturalSignificance: mapSignificance(payload.CulturalSignificance),
		Title:                defaultString(payload.Title, "Untitled Story"),
		Description:          payload.Description,
		SpanishTranslation:   payload.SpanishTranslation,
	}, nil
}

func mapCategory(s string) models.StoryCategory {
	switch models.StoryCategory(s) {
	case models.CategoryRitual, models.CategoryLegend, models.CategoryPersonalStory,
		models.CategoryHistorical, models.CategoryMyth, models.CategoryOther:
		return models.StoryCategory(s)
	default:
		return models.CategoryOther
	}
}

func mapSignificance(s string) models.CulturalSignificance {
	switch models.CulturalSignificance(s) {
	case models.SignificanceHigh, models.SignificanceMedium, models.SignificanceLow:
		return models.CulturalSignificance(s)
	default:
		return models.SignificanceMedium
	}
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
