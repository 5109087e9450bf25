package ratings

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRatingRepo struct {
	mu      sync.Mutex
	seq     int
	ratings map[string]*models.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[string]*models.Rating)}
}

func (r *fakeRatingRepo) Insert(ctx context.Context, rating *models.Rating) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ratings {
		if existing.DoctorID == rating.DoctorID && existing.RaterRef == rating.RaterRef {
			return "", contracts.ErrDuplicateRating
		}
	}
	r.seq++
	id := fmt.Sprintf("rating-%d", r.seq)
	copied := *rating
	copied.ID = id
	r.ratings[id] = &copied
	return id, nil
}

func (r *fakeRatingRepo) FindByDoctorAndRater(ctx context.Context, doctorID, raterRef string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rating := range r.ratings {
		if rating.DoctorID == doctorID && rating.RaterRef == raterRef {
			copied := *rating
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRatingRepo) UpdateScoreAndComment(ctx context.Context, ratingID string, score int, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[ratingID]
	if !ok {
		return exceptions.ErrMongoDBUpdateDocument(nil)
	}
	rating.Score = score
	rating.Comment = comment
	return nil
}

func (r *fakeRatingRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []models.Rating
	for _, rating := range r.ratings {
		if rating.DoctorID == doctorID {
			list = append(list, *rating)
		}
	}
	return list, nil
}

type fakeDoctorRepo struct {
	doctors map[string]*models.Doctor
}

func (r *fakeDoctorRepo) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, ok := r.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	return doctor, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context) ([]models.Doctor, error) { return nil, nil }

func (r *fakeDoctorRepo) UpdateAvailability(ctx context.Context, doctorID string, available bool) error {
	return nil
}

func (r *fakeDoctorRepo) ClaimSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error {
	return nil
}

func (r *fakeDoctorRepo) FreeSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error {
	return nil
}

func newTestUsecase(ratingRepo *fakeRatingRepo) *ratingUsecase {
	return &ratingUsecase{
		RatingRepository: ratingRepo,
		DoctorRepository: &fakeDoctorRepo{doctors: map[string]*models.Doctor{
			"doc-1": {ID: "doc-1", Name: "Dr. Richard James"},
		}},
		Log: zap.NewNop(),
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("first rating creates and aggregates", func(t *testing.T) {
		uc := newTestUsecase(newFakeRatingRepo())

		summary, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 4, "helpful")

		assert.NoError(t, err)
		assert.Equal(t, 4.0, summary.AverageRating)
		assert.Equal(t, 1, summary.TotalRatings)
	})

	t.Run("resubmission overwrites instead of adding", func(t *testing.T) {
		ratingRepo := newFakeRatingRepo()
		uc := newTestUsecase(ratingRepo)

		_, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 3, "ok")
		assert.NoError(t, err)
		summary, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 5, "great after all")
		assert.NoError(t, err)

		assert.Equal(t, 1, summary.TotalRatings)
		assert.Equal(t, 5.0, summary.AverageRating)

		stored, _ := ratingRepo.FindByDoctorAndRater(ctx, "doc-1", "user:user-1")
		assert.Equal(t, 5, stored.Score)
		assert.Equal(t, "great after all", stored.Comment)
	})

	t.Run("insert race falls back to update", func(t *testing.T) {
		ratingRepo := newFakeRatingRepo()
		uc := newTestUsecase(ratingRepo)

		// Another writer slipped in between the read and the insert.
		_, err := ratingRepo.Insert(ctx, &models.Rating{DoctorID: "doc-1", RaterRef: "user:user-1", Score: 2})
		assert.NoError(t, err)
		delegated := &raceRatingRepo{fakeRatingRepo: ratingRepo}
		uc.RatingRepository = delegated

		summary, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 5, "")

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.TotalRatings)
		assert.Equal(t, 5.0, summary.AverageRating)
	})

	t.Run("distinct raters accumulate with one decimal average", func(t *testing.T) {
		uc := newTestUsecase(newFakeRatingRepo())

		_, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 4, "")
		assert.NoError(t, err)
		_, err = uc.Submit(ctx, "doc-1", models.AdminRater("admin-1"), 5, "")
		assert.NoError(t, err)
		summary, err := uc.Submit(ctx, "doc-1", models.SelfRater(), 5, "")
		assert.NoError(t, err)

		assert.Equal(t, 3, summary.TotalRatings)
		assert.Equal(t, 4.7, summary.AverageRating)
	})

	t.Run("score bounds are enforced", func(t *testing.T) {
		uc := newTestUsecase(newFakeRatingRepo())

		for _, score := range []int{0, 6, -1} {
			_, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), score, "")
			var customErr *exceptions.CustomError
			assert.ErrorAs(t, err, &customErr)
			assert.Equal(t, 400, customErr.StatusCode)
		}
		for _, score := range []int{1, 5} {
			_, err := uc.Submit(ctx, "doc-1", models.UserRater(fmt.Sprintf("user-bound-%d", score)), score, "")
			assert.NoError(t, err)
		}
	})

	t.Run("oversized comment is rejected", func(t *testing.T) {
		uc := newTestUsecase(newFakeRatingRepo())
		long := make([]byte, 501)
		for i := range long {
			long[i] = 'a'
		}

		_, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 4, string(long))

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 400, customErr.StatusCode)
	})

	t.Run("comment length counts characters, not bytes", func(t *testing.T) {
		uc := newTestUsecase(newFakeRatingRepo())

		// 400 three-byte runes: over the limit in bytes, well under it in
		// characters.
		multibyte := strings.Repeat("好", 400)
		_, err := uc.Submit(ctx, "doc-1", models.UserRater("user-1"), 4, multibyte)
		assert.NoError(t, err)

		_, err = uc.Submit(ctx, "doc-1", models.UserRater("user-2"), 4, strings.Repeat("好", 501))
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 400, customErr.StatusCode)
	})

	t.Run("unknown doctor is rejected", func(t *testing.T) {
		uc := newTestUsecase(newFakeRatingRepo())

		_, err := uc.Submit(ctx, "doc-missing", models.UserRater("user-1"), 4, "")

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 404, customErr.StatusCode)
	})
}

// raceRatingRepo pretends the rating does not exist on the first read so the
// usecase attempts an insert and collides with the unique index.
type raceRatingRepo struct {
	*fakeRatingRepo
	reads int
}

func (r *raceRatingRepo) FindByDoctorAndRater(ctx context.Context, doctorID, raterRef string) (*models.Rating, error) {
	r.reads++
	if r.reads == 1 {
		return nil, nil
	}
	return r.fakeRatingRepo.FindByDoctorAndRater(ctx, doctorID, raterRef)
}

func TestRaterRef(t *testing.T) {
	assert.Equal(t, "user:u1", models.UserRater("u1").Ref())
	assert.Equal(t, "admin:a1", models.AdminRater("a1").Ref())
	assert.Equal(t, "self", models.SelfRater().Ref())
	assert.True(t, models.SelfRater().IsSelf())
}
