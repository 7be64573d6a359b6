package models

import (
	"io"
	"time"
)

type StoryStatus string

const (
	StoryStatusDraft      StoryStatus = "draft"
	StoryStatusProcessing StoryStatus = "processing"
	StoryStatusPublished  StoryStatus = "published"
	StoryStatusArchived   StoryStatus = "archived"
)

// CanTransition reports whether a status change is allowed. Archived is
// terminal; published is only reachable from draft or processing.
func (s StoryStatus) CanTransition(to StoryStatus) bool {
	if s == to {
		return true
	}
	switch s {
	case StoryStatusDraft:
		return to == StoryStatusProcessing || to == StoryStatusPublished || to == StoryStatusArchived
	case StoryStatusProcessing:
		return to == StoryStatusPublished || to == StoryStatusArchived
	case StoryStatusPublished:
		return to == StoryStatusArchived
	default:
		return false
	}
}

type StoryCategory string

const (
	CategoryRitual        StoryCategory = "ritual"
	CategoryLegend        StoryCategory = "legend"
	CategoryPersonalStory StoryCategory = "personal_story"
	CategoryHistorical    StoryCategory = "historical"
	CategoryMyth          StoryCategory = "myth"
	CategoryOther         StoryCategory = "other"
)

type CulturalSignificance string

const (
	SignificanceHigh   CulturalSignificance = "high"
	SignificanceMedium CulturalSignificance = "medium"
	SignificanceLow    CulturalSignificance = "low"
)

type Narrator struct {
	Name         string `json:"name" validate:"required,gte=2,lte=200"`
	Age          *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	Community    string `json:"community" validate:"required,gte=2,lte=200"`
	Language     string `json:"language" validate:"required,oneof=aymara spanish mixed"`
	ConsentGiven bool   `json:"consent_given" validate:"required"`
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PlaceName string  `json:"place_name,omitempty" validate:"lte=500"`
	// Geohash is the 8-character proximity cell derived from the
	// coordinates; recomputed only when the location changes.
	Geohash string `json:"geohash,omitempty"`
}

type Transcription struct {
	PrimaryText    string  `json:"primary_text"`
	TranslatedText string  `json:"translated_text,omitempty"`
	Confidence     float64 `json:"confidence"`
}

type Story struct {
	ID                   string               `json:"id"`
	AudioURL             string               `json:"audio_url"`
	AudioDuration        int                  `json:"audio_duration"`
	AudioSize            int64                `json:"audio_size,omitempty"`
	AudioFormat          string               `json:"audio_format,omitempty"`
	Narrator             Narrator             `json:"narrator"`
	Location             Location             `json:"location"`
	Transcription        *Transcription       `json:"transcription,omitempty"`
	Keywords             []string             `json:"keywords"`
	Category             StoryCategory        `json:"category,omitempty"`
	CulturalSignificance CulturalSignificance `json:"cultural_significance,omitempty"`
	Title                string               `json:"title,omitempty"`
	Description          string               `json:"description,omitempty"`
	Status               StoryStatus          `json:"status"`
	PublicURL            string               `json:"public_url,omitempty"`
	QRCodeURL            string               `json:"qr_url,omitempty"`
	PrintableQRURL       string               `json:"printable_qr_url,omitempty"`
	Views                int64                `json:"views"`
	Featured             bool                 `json:"featured"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
	PublishedAt          *time.Time           `json:"published_at,omitempty"`
}

type StoryCreateInput struct {
	AudioURL      string   `json:"audio_url" validate:"required"`
	AudioDuration int      `json:"audio_duration" validate:"required,gte=1"`
	AudioSize     int64    `json:"audio_size,omitempty"`
	AudioFormat   string   `json:"audio_format,omitempty" validate:"omitempty,lte=10"`
	Narrator      Narrator `json:"narrator"`
	Location      Location `json:"location"`
}

type StoryUpdateInput struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,lte=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,lte=1000"`
	Keywords    []string       `json:"keywords,omitempty"`
	Category    *StoryCategory `json:"category,omitempty"`
	Status      *StoryStatus   `json:"status,omitempty"`
	Featured    *bool          `json:"featured,omitempty"`
	Location    *Location      `json:"location,omitempty"`
}

// PublishFields is the single batched write the pipeline's persist stage
// applies together with status=published.
type PublishFields struct {
	Transcription        Transcription
	Keywords             []string
	Category             StoryCategory
	CulturalSignificance CulturalSignificance
	Title                string
	Description          string
	PublishedAt          time.Time
}

type StoryFilter struct {
	Status   string
	Category string
}

type StoryList struct {
	Stories  []*Story `json:"stories"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	HasMore  bool     `json:"has_more"`
}

type UploadInput struct {
	Key        string `json:"key"`
	BucketName string `json:"bucket_name"`
	MimeType   string `json:"mime_type" validate:"required"`
	Name       string `json:"name" validate:"required,lte=255"`
	Size       int64  `json:"size" validate:"required"`
	File       io.Reader `json:"-"`
}
