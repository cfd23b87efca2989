package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/client/client"
	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/datex"
)

const (
	// FirstAPODDate is the first day the archive has a picture for.
	FirstAPODDate  = "1995-06-16"
	MaxRandomCount = 100
)

var ErrBadDate = fmt.Errorf("%w: unrecognized date", common.ErrorValidation)

// ContentAPI is the APOD part of the backend.
type ContentAPI interface {
	GetAPOD(ctx context.Context, date string) (*models.APOD, error)
	RandomAPOD(ctx context.Context, count int) ([]models.APOD, error)
	RangeAPOD(ctx context.Context, start, end string) ([]models.APOD, error)
}

type ContentService interface {
	Today(ctx context.Context) (*models.APOD, error)
	ByDate(ctx context.Context, rawDate string) (*models.APOD, error)
	Random(ctx context.Context, count int) ([]models.APOD, error)
	Range(ctx context.Context, from, to string) ([]models.APOD, error)
}

type contentService struct {
	api     ContentAPI
	session SessionInvalidator
	now     func() time.Time
}

func NewContentService(api ContentAPI, session SessionInvalidator) ContentService {
	return &contentService{api: api, session: session, now: time.Now}
}

func (s *contentService) check(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) && s.session != nil {
		s.session.Invalidate(ctx, err.Error())
	}
	return err
}

// date normalizes raw and checks it falls inside the archive.
func (s *contentService) date(raw string) (string, error) {
	d := datex.Normalize(raw)
	if !datex.IsCanonical(d) {
		return "", fmt.Errorf("%w: %q", ErrBadDate, raw)
	}
	if d < FirstAPODDate {
		return "", fmt.Errorf("%w: %s is before %s", common.ErrorValidation, d, FirstAPODDate)
	}
	if today := s.now().Format(datex.Layout); d > today {
		return "", fmt.Errorf("%w: %s is in the future", common.ErrorValidation, d)
	}
	return d, nil
}

func (s *contentService) Today(ctx context.Context) (*models.APOD, error) {
	a, err := s.api.GetAPOD(ctx, "")
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return a, nil
}

func (s *contentService) ByDate(ctx context.Context, rawDate string) (*models.APOD, error) {
	d, err := s.date(rawDate)
	if err != nil {
		return nil, err
	}
	a, err := s.api.GetAPOD(ctx, d)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return a, nil
}

func (s *contentService) Random(ctx context.Context, count int) ([]models.APOD, error) {
	if count < 1 || count > MaxRandomCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", common.ErrorValidation, MaxRandomCount)
	}
	list, err := s.api.RandomAPOD(ctx, count)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return list, nil
}

func (s *contentService) Range(ctx context.Context, from, to string) ([]models.APOD, error) {
	start, err := s.date(from)
	if err != nil {
		return nil, err
	}
	end, err := s.date(to)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("%w: %s is after %s", common.ErrorValidation, start, end)
	}
	list, err := s.api.RangeAPOD(ctx, start, end)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return list, nil
}
