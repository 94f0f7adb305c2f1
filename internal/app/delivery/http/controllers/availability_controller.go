package controllers

import (
	"net/http"

	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/pkg/constvars"
	"healthfirst-service/internal/pkg/dto/requests"
	"healthfirst-service/internal/pkg/exceptions"
	"healthfirst-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AvailabilityController struct {
	Usecase contracts.AvailabilityUsecase
	Log     *zap.Logger
}

func NewAvailabilityController(usecase contracts.AvailabilityUsecase, log *zap.Logger) *AvailabilityController {
	return &AvailabilityController{
		Usecase: usecase,
		Log:     log,
	}
}

func (c *AvailabilityController) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	var request requests.CreateAvailability
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInvalidRequestPayload(err))
		return
	}

	result, err := c.Usecase.CreateAvailability(r.Context(), &request)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessAvailabilityCreated, result)
}

func (c *AvailabilityController) GetProviderAvailability(w http.ResponseWriter, r *http.Request) {
	request := requests.GetProviderAvailability{
		ProviderID: chi.URLParam(r, constvars.URLParamProviderID),
		StartDate:  r.URL.Query().Get(constvars.URLQueryParamStartDate),
		EndDate:    r.URL.Query().Get(constvars.URLQueryParamEndDate),
	}

	result, err := c.Usecase.GetProviderAvailability(r.Context(), &request)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessAvailabilityFetched, result)
}

func (c *AvailabilityController) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	availabilityID := chi.URLParam(r, constvars.URLParamAvailabilityID)
	if availabilityID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamAvailabilityID))
		return
	}

	if err := c.Usecase.DeleteAvailability(r.Context(), availabilityID); err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessAvailabilityDeleted, nil)
}
