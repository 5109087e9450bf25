package contracts

import (
	"context"
	"errors"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/responses"
)

// ErrDuplicateRating is returned by Insert when the unique
// (doctorId, raterRef) index rejects the document. The usecase falls back to
// an in-place update instead of surfacing the conflict.
var ErrDuplicateRating = errors.New("rating already exists for this doctor and rater")

type RatingRepository interface {
	Insert(ctx context.Context, rating *models.Rating) (string, error)
	FindByDoctorAndRater(ctx context.Context, doctorID, raterRef string) (*models.Rating, error)
	UpdateScoreAndComment(ctx context.Context, ratingID string, score int, comment string) error
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Rating, error)
}

type RatingUsecase interface {
	Submit(ctx context.Context, doctorID string, rater models.Rater, score int, comment string) (*responses.RatingSummary, error)
	Summary(ctx context.Context, doctorID string) (*responses.RatingSummary, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Rating, error)
}
