package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/stories"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

type storiesRepo struct {
	db *sqlx.DB
}

func NewStoriesRepo(db *sqlx.DB) stories.Repository {
	return &storiesRepo{
		db: db,
	}
}

// storyRow is the flat table shape; nested model structs are assembled in
// toModel.
type storyRow struct {
	StoryID              string          `db:"story_id"`
	AudioURL             string          `db:"audio_url"`
	AudioDuration        int             `db:"audio_duration"`
	AudioSize            sql.NullInt64   `db:"audio_size"`
	AudioFormat          sql.NullString  `db:"audio_format"`
	NarratorName         string          `db:"narrator_name"`
	NarratorAge          sql.NullInt32   `db:"narrator_age"`
	NarratorCommunity    string          `db:"narrator_community"`
	NarratorLanguage     string          `db:"narrator_language"`
	NarratorConsent      bool            `db:"narrator_consent"`
	Latitude             float64         `db:"latitude"`
	Longitude            float64         `db:"longitude"`
	PlaceName            sql.NullString  `db:"place_name"`
	Geohash              string          `db:"geohash"`
	Transcription        json.RawMessage `db:"transcription"`
	Keywords             json.RawMessage `db:"keywords"`
	Category             sql.NullString  `db:"category"`
	CulturalSignificance sql.NullString  `db:"cultural_significance"`
	Title                sql.NullString  `db:"title"`
	Description          sql.NullString  `db:"description"`
	Status               string          `db:"status"`
	PublicURL            sql.NullString  `db:"public_url"`
	QRURL                sql.NullString  `db:"qr_url"`
	PrintableQRURL       sql.NullString  `db:"printable_qr_url"`
	Views                int64           `db:"views"`
	Featured             bool            `db:"featured"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
	PublishedAt          sql.NullTime    `db:"published_at"`
}

func (r *storyRow) toModel() (*models.Story, error) {
	story := &models.Story{
		ID:            r.StoryID,
		AudioURL:      r.AudioURL,
		AudioDuration: r.AudioDuration,
		AudioSize:     r.AudioSize.Int64,
		AudioFormat:   r.AudioFormat.String,
		Narrator: models.Narrator{
			Name:         r.NarratorName,
			Community:    r.NarratorCommunity,
			Language:     r.NarratorLanguage,
			ConsentGiven: r.NarratorConsent,
		},
		Location: models.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			PlaceName: r.PlaceName.String,
			Geohash:   r.Geohash,
		},
		Keywords:             []string{},
		Category:             models.StoryCategory(r.Category.String),
		CulturalSignificance: models.CulturalSignificance(r.CulturalSignificance.String),
		Title:                r.Title.String,
		Description:          r.Description.String,
		Status:               models.StoryStatus(r.Status),
		PublicURL:            r.PublicURL.String,
		QRCodeURL:            r.QRURL.String,
		PrintableQRURL:       r.PrintableQRURL.String,
		Views:                r.Views,
		Featured:             r.Featured,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.NarratorAge.Valid {
		age := int(r.NarratorAge.Int32)
		story.Narrator.Age = &age
	}
	if r.PublishedAt.Valid {
		t := r.PublishedAt.Time
		story.PublishedAt = &t
	}
	if len(r.Keywords) > 0 {
		if err := json.Unmarshal(r.Keywords, &story.Keywords); err != nil {
			return nil, errors.Wrap(err, "storyRow.toModel.keywords")
		}
	}
	if len(r.Transcription) > 0 {
		var tr models.Transcription
		if err := json.Unmarshal(r.Transcription, &tr); err != nil {
			return nil, errors.Wrap(err, "storyRow.toModel.transcription")
		}
		story.Transcription = &tr
	}
	return story, nil
}

func marshalKeywords(keywords []string) ([]byte, error) {
	if keywords == nil {
		keywords = []string{}
	}
	return json.Marshal(keywords)
}

func (s *storiesRepo) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	keywords, err := marshalKeywords(story.Keywords)
	if err != nil {
		return nil, errors.Wrap(err, "storiesRepo.Create.keywords")
	}

	var age interface{}
	if story.Narrator.Age != nil {
		age = *story.Narrator.Age
	}
	var placeName interface{}
	if story.Location.PlaceName != "" {
		placeName = story.Location.PlaceName
	}

	row := &storyRow{}
	if err := s.db.QueryRowxContext(
		ctx,
		createStoryQuery,
		story.AudioURL,
		story.AudioDuration,
		story.AudioSize,
		story.AudioFormat,
		story.Narrator.Name,
		age,
		story.Narrator.Community,
		story.Narrator.Language,
		story.Narrator.ConsentGiven,
		story.Location.Latitude,
		story.Location.Longitude,
		placeName,
		story.Location.Geohash,
		keywords,
		story.Status,
	).StructScan(row); err != nil {
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.Create: %v", err)
	}
	return row.toModel()
}

func (s *storiesRepo) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	row := &storyRow{}
	if err := s.db.QueryRowxContext(ctx, getStoryByIDQuery, storyID).StructScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(models.ErrNotFound, "storiesRepo.GetByID")
		}
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.GetByID: %v", err)
	}
	return row.toModel()
}

func (s *storiesRepo) Update(ctx context.Context, storyID string, input *models.StoryUpdateInput) (*models.Story, error) {
	var keywords interface{}
	if input.Keywords != nil {
		data, err := marshalKeywords(input.Keywords)
		if err != nil {
			return nil, errors.Wrap(err, "storiesRepo.Update.keywords")
		}
		keywords = data
	}

	var lat, lon, placeName, geohash interface{}
	if input.Location != nil {
		lat = input.Location.Latitude
		lon = input.Location.Longitude
		if input.Location.PlaceName != "" {
			placeName = input.Location.PlaceName
		}
		geohash = input.Location.Geohash
	}

	row := &storyRow{}
	if err := s.db.QueryRowxContext(
		ctx,
		updateStoryQuery,
		input.Title,
		input.Description,
		keywords,
		input.Category,
		input.Status,
		input.Featured,
		lat,
		lon,
		placeName,
		geohash,
		storyID,
	).StructScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(models.ErrNotFound, "storiesRepo.Update")
		}
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.Update: %v", err)
	}
	return row.toModel()
}

func (s *storiesRepo) Publish(ctx context.Context, storyID string, fields *models.PublishFields) error {
	transcription, err := json.Marshal(fields.Transcription)
	if err != nil {
		return errors.Wrap(err, "storiesRepo.Publish.transcription")
	}
	keywords, err := marshalKeywords(fields.Keywords)
	if err != nil {
		return errors.Wrap(err, "storiesRepo.Publish.keywords")
	}

	res, err := s.db.ExecContext(
		ctx,
		publishStoryQuery,
		transcription,
		keywords,
		fields.Category,
		fields.CulturalSignificance,
		fields.Title,
		fields.Description,
		fields.PublishedAt,
		storyID,
	)
	if err != nil {
		return errors.Wrapf(models.ErrStore, "storiesRepo.Publish: %v", err)
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return errors.Wrap(models.ErrNotFound, "storiesRepo.Publish")
	}
	return nil
}

func (s *storiesRepo) SetPublicURL(ctx context.Context, storyID, publicURL string) error {
	res, err := s.db.ExecContext(ctx, setPublicURLQuery, publicURL, storyID)
	if err != nil {
		return errors.Wrapf(models.ErrStore, "storiesRepo.SetPublicURL: %v", err)
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return errors.Wrap(models.ErrNotFound, "storiesRepo.SetPublicURL")
	}
	return nil
}

func (s *storiesRepo) SetQRUrls(ctx context.Context, storyID, qrURL, printableURL string) error {
	res, err := s.db.ExecContext(ctx, setQRUrlsQuery, qrURL, printableURL, storyID)
	if err != nil {
		return errors.Wrapf(models.ErrStore, "storiesRepo.SetQRUrls: %v", err)
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return errors.Wrap(models.ErrNotFound, "storiesRepo.SetQRUrls")
	}
	return nil
}

func (s *storiesRepo) SoftDelete(ctx context.Context, storyID string) error {
	res, err := s.db.ExecContext(ctx, softDeleteStoryQuery, storyID)
	if err != nil {
		return errors.Wrapf(models.ErrStore, "storiesRepo.SoftDelete: %v", err)
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return errors.Wrap(models.ErrNotFound, "storiesRepo.SoftDelete")
	}
	return nil
}

func (s *storiesRepo) List(ctx context.Context, filter *models.StoryFilter, pq *utils.Pagination) (*models.StoryList, error) {
	if filter == nil {
		filter = &models.StoryFilter{}
	}

	var totalCount int
	if err := s.db.GetContext(
		ctx,
		&totalCount,
		getTotalStoriesQuery,
		filter.Status,
		filter.Category,
	); err != nil {
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.List.count: %v", err)
	}
	if totalCount == 0 {
		return &models.StoryList{
			Stories:  make([]*models.Story, 0),
			Total:    0,
			Page:     pq.GetPage(),
			PageSize: pq.GetSize(),
			HasMore:  false,
		}, nil
	}

	rows, err := s.db.QueryxContext(
		ctx,
		listStoriesQuery,
		filter.Status,
		filter.Category,
		pq.GetOffset(),
		pq.GetLimit(),
	)
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.List: %v", err)
	}
	defer rows.Close()

	result := make([]*models.Story, 0, pq.GetSize())
	for rows.Next() {
		row := &storyRow{}
		if err = rows.StructScan(row); err != nil {
			return nil, errors.Wrapf(models.ErrStore, "storiesRepo.List.scan: %v", err)
		}
		story, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, story)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.List.rows: %v", err)
	}

	return &models.StoryList{
		Stories:  result,
		Total:    totalCount,
		Page:     pq.GetPage(),
		PageSize: pq.GetSize(),
		HasMore:  utils.GetHasMore(pq.GetPage(), totalCount, pq.GetSize()),
	}, nil
}

func (s *storiesRepo) IncrementViews(ctx context.Context, storyID string) error {
	res, err := s.db.ExecContext(ctx, incrementViewsQuery, storyID)
	if err != nil {
		return errors.Wrapf(models.ErrStore, "storiesRepo.IncrementViews: %v", err)
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return errors.Wrap(models.ErrNotFound, "storiesRepo.IncrementViews")
	}
	return nil
}

func (s *storiesRepo) FindByCellPrefix(ctx context.Context, prefix string, limit int) ([]*models.Story, error) {
	rows, err := s.db.QueryxContext(ctx, findByCellPrefixQuery, prefix, limit)
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.FindByCellPrefix: %v", err)
	}
	defer rows.Close()

	result := make([]*models.Story, 0, limit)
	for rows.Next() {
		row := &storyRow{}
		if err = rows.StructScan(row); err != nil {
			return nil, errors.Wrapf(models.ErrStore, "storiesRepo.FindByCellPrefix.scan: %v", err)
		}
		story, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, story)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(models.ErrStore, "storiesRepo.FindByCellPrefix.rows: %v", err)
	}
	return result, nil
}
