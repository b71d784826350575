package report

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/socialrhythm/rhythm-backend/internal/crowd"
	"github.com/socialrhythm/rhythm-backend/internal/place"
)

var (
	ErrInvalidCrowdLevel = errors.New("invalid crowd level")
	ErrTooManyReports    = errors.New("report rate limit exceeded")
)

const (
	// observationWindow is how far back reports feed predictions.
	observationWindow = 90 * 24 * time.Hour

	// maxReportsPerHour caps how fast one user can submit.
	maxReportsPerHour = 12

	maxObservations = 5000
	listLimit       = 100
)

// PlaceSource resolves a report's place and applies its live effects.
type PlaceSource interface {
	GetPlace(ctx context.Context, id string) (*place.Place, error)
	UpdateStatus(ctx context.Context, id string, status place.Status) error
}

type Service interface {
	SubmitReport(ctx context.Context, userID int64, dto *SubmitReportDTO) (*Report, error)
	GetReport(ctx context.Context, id string) (*Report, error)
	ListPlaceReports(ctx context.Context, placeID string, since time.Time) ([]*Report, error)
	AttachPhoto(ctx context.Context, reportID string, file multipart.File, header *multipart.FileHeader) (string, error)
	DeleteReport(ctx context.Context, id string, userID int64) error

	// ObservationsForPlace feeds the prediction engine.
	ObservationsForPlace(ctx context.Context, placeID string) ([]crowd.Observation, error)
}

type service struct {
	repo    Repository
	places  PlaceSource
	uploads *UploadService
	now     func() time.Time
}

func NewService(repo Repository, places PlaceSource, uploads *UploadService) Service {
	return &service{
		repo:    repo,
		places:  places,
		uploads: uploads,
		now:     time.Now,
	}
}

func (s *service) SubmitReport(ctx context.Context, userID int64, dto *SubmitReportDTO) (*Report, error) {
	level := crowd.CrowdLevel(dto.CrowdLevel)
	switch level {
	case crowd.LevelLow, crowd.LevelMedium, crowd.LevelHigh, crowd.LevelVeryHigh:
	default:
		return nil, ErrInvalidCrowdLevel
	}

	p, err := s.places.GetPlace(ctx, dto.PlaceID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.CountForUserSince(ctx, userID, s.now().Add(-time.Hour))
	if err != nil {
		return nil, err
	}
	if recent >= maxReportsPerHour {
		return nil, ErrTooManyReports
	}

	report := &Report{
		ID:          uuid.New().String(),
		PlaceID:     dto.PlaceID,
		UserID:      userID,
		CrowdLevel:  level,
		WaitMinutes: dto.WaitMinutes,
		NoiseLevel:  dto.NoiseLevel,
		IsOpen:      dto.IsOpen,
		Notes:       dto.Notes,
		Confidence:  scoreConfidence(dto.Verified, false),
		Verified:    dto.Verified,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.applyToStatus(ctx, p, report)
	recordReportSubmitted(string(level))

	return report, nil
}

// applyToStatus folds the fresh report into the place's live status.
// A failed status write does not fail the submission.
func (s *service) applyToStatus(ctx context.Context, p *place.Place, report *Report) {
	status := p.Status
	status.Density = report.CrowdLevel.Value()
	if report.WaitMinutes != nil {
		status.EstimatedWait = *report.WaitMinutes
	}
	if report.IsOpen != nil {
		status.IsOpen = *report.IsOpen
	}

	if err := s.places.UpdateStatus(ctx, p.ID, status); err != nil {
		recordStatusApplyFailure()
	}
}

func (s *service) GetReport(ctx context.Context, id string) (*Report, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) ListPlaceReports(ctx context.Context, placeID string, since time.Time) ([]*Report, error) {
	if since.IsZero() {
		since = s.now().Add(-24 * time.Hour)
	}
	return s.repo.ListForPlace(ctx, placeID, since, listLimit)
}

func (s *service) AttachPhoto(ctx context.Context, reportID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	report, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return "", err
	}

	url, err := s.uploads.UploadFile(file, header)
	if err != nil {
		return "", err
	}

	// Photo evidence re-scores the report's confidence.
	confidence := scoreConfidence(report.Verified, true)
	if err := s.repo.SetPhotoURL(ctx, reportID, url, confidence); err != nil {
		return "", err
	}

	return url, nil
}

func (s *service) DeleteReport(ctx context.Context, id string, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *service) ObservationsForPlace(ctx context.Context, placeID string) ([]crowd.Observation, error) {
	reports, err := s.repo.ListForPlace(ctx, placeID, s.now().Add(-observationWindow), maxObservations)
	if err != nil {
		return nil, err
	}

	observations := make([]crowd.Observation, 0, len(reports))
	for _, r := range reports {
		observations = append(observations, r.Observation())
	}

	return observations, nil
}
