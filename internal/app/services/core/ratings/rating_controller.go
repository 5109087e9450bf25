package ratings

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type RatingController struct {
	Log           *zap.Logger
	RatingUsecase contracts.RatingUsecase
}

func NewRatingController(logger *zap.Logger, ratingUsecase contracts.RatingUsecase) *RatingController {
	return &RatingController{
		Log:           logger,
		RatingUsecase: ratingUsecase,
	}
}

func (ctrl *RatingController) Submit(w http.ResponseWriter, r *http.Request) {
	request := new(requests.SubmitRatingRequest)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	rater, err := buildRater(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	summary, err := ctrl.RatingUsecase.Submit(ctx, request.DoctorID, rater, request.Score, request.Comment)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RatingSubmittedSuccess, summary)
}

func (ctrl *RatingController) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.RatingUsecase.ListByDoctor(ctx, doctorID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RatingsFetchedSuccess, result)
}

func (ctrl *RatingController) Summary(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.RatingUsecase.Summary(ctx, doctorID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RatingsFetchedSuccess, result)
}

func buildRater(request *requests.SubmitRatingRequest) (models.Rater, error) {
	switch request.RaterKind {
	case constvars.RaterKindSelf:
		return models.SelfRater(), nil
	case constvars.RaterKindAdmin:
		if request.RaterID == "" {
			return models.Rater{}, exceptions.ErrClientCustomMessage(errors.New("raterId is required for admin ratings"))
		}
		return models.AdminRater(request.RaterID), nil
	default:
		if request.RaterID == "" {
			return models.Rater{}, exceptions.ErrClientCustomMessage(errors.New("raterId is required for user ratings"))
		}
		return models.UserRater(request.RaterID), nil
	}
}
