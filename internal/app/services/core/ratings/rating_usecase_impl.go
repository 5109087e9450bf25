package ratings

import (
	"context"
	"errors"
	"math"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	ratingUsecaseInstance contracts.RatingUsecase
	onceRatingUsecase     sync.Once
)

type ratingUsecase struct {
	RatingRepository contracts.RatingRepository
	DoctorRepository contracts.DoctorRepository
	Log              *zap.Logger
}

func NewRatingUsecase(
	ratingRepository contracts.RatingRepository,
	doctorRepository contracts.DoctorRepository,
	logger *zap.Logger,
) contracts.RatingUsecase {
	onceRatingUsecase.Do(func() {
		instance := &ratingUsecase{
			RatingRepository: ratingRepository,
			DoctorRepository: doctorRepository,
			Log:              logger,
		}
		ratingUsecaseInstance = instance
	})
	return ratingUsecaseInstance
}

// Submit records or overwrites the rater's score for a doctor, then returns
// the recomputed aggregate. A second submission by the same rater replaces
// the previous one instead of adding a row; the unique index arbitrates
// insert races and the loser falls back to the in-place update.
func (uc *ratingUsecase) Submit(ctx context.Context, doctorID string, rater models.Rater, score int, comment string) (*responses.RatingSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ratingUsecase.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingRaterRefKey, rater.Ref()),
	)

	if score < constvars.RatingScoreMin || score > constvars.RatingScoreMax {
		return nil, exceptions.ErrInvalidRatingScore(nil)
	}
	// The limit counts characters, not bytes, so multi-byte comments are
	// measured the same way the client measures them.
	if utf8.RuneCountInString(comment) > constvars.RatingCommentMaxSize {
		return nil, exceptions.ErrInvalidRatingComment(nil)
	}

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	existing, err := uc.RatingRepository.FindByDoctorAndRater(ctx, doctorID, rater.Ref())
	if err != nil {
		return nil, err
	}

	if existing != nil {
		err = uc.RatingRepository.UpdateScoreAndComment(ctx, existing.ID, score, comment)
		if err != nil {
			return nil, err
		}
	} else {
		_, err = uc.RatingRepository.Insert(ctx, &models.Rating{
			DoctorID:  doctorID,
			RaterRef:  rater.Ref(),
			RaterKind: rater.Kind,
			RaterID:   rater.ID,
			Score:     score,
			Comment:   comment,
		})
		if errors.Is(err, contracts.ErrDuplicateRating) {
			// Lost an insert race against the same rater. Re-read and update.
			raced, findErr := uc.RatingRepository.FindByDoctorAndRater(ctx, doctorID, rater.Ref())
			if findErr != nil {
				return nil, findErr
			}
			if raced == nil {
				return nil, exceptions.ErrServerProcess(err)
			}
			err = uc.RatingRepository.UpdateScoreAndComment(ctx, raced.ID, score, comment)
		}
		if err != nil {
			return nil, err
		}
	}

	uc.Log.Info("ratingUsecase.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	return uc.Summary(ctx, doctorID)
}

func (uc *ratingUsecase) Summary(ctx context.Context, doctorID string) (*responses.RatingSummary, error) {
	ratings, err := uc.RatingRepository.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	average, total := aggregate(ratings)
	return &responses.RatingSummary{
		DoctorID:      doctorID,
		AverageRating: average,
		TotalRatings:  total,
	}, nil
}

func (uc *ratingUsecase) ListByDoctor(ctx context.Context, doctorID string) ([]models.Rating, error) {
	return uc.RatingRepository.ListByDoctor(ctx, doctorID)
}

// aggregate computes the mean score rounded to one decimal place. No ratings
// yields a zero average, not NaN.
func aggregate(ratings []models.Rating) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating.Score
	}
	average := float64(sum) / float64(len(ratings))
	return math.Round(average*10) / 10, len(ratings)
}
