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

type SlotController struct {
	Usecase contracts.SlotUsecase
	Log     *zap.Logger
}

func NewSlotController(usecase contracts.SlotUsecase, log *zap.Logger) *SlotController {
	return &SlotController{
		Usecase: usecase,
		Log:     log,
	}
}

func (c *SlotController) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, constvars.URLParamSlotID)
	if slotID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamSlotID))
		return
	}

	var request requests.UpdateSlot
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInvalidRequestPayload(err))
		return
	}

	result, err := c.Usecase.UpdateSlot(r.Context(), slotID, &request)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSlotUpdated, result)
}

func (c *SlotController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, constvars.URLParamSlotID)
	if slotID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamSlotID))
		return
	}

	if err := c.Usecase.DeleteSlot(r.Context(), slotID); err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSlotDeleted, nil)
}

func (c *SlotController) SearchSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	request := requests.SearchSlots{
		Date:            query.Get(constvars.URLQueryParamDate),
		Status:          query.Get(constvars.URLQueryParamStatus),
		ProviderID:      query.Get(constvars.URLQueryParamProviderID),
		AppointmentType: query.Get(constvars.URLQueryParamAppointmentType),
	}

	result, err := c.Usecase.SearchSlots(r.Context(), &request)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSlotsFetched, result)
}
