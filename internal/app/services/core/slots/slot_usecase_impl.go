package slots

import (
	"context"
	"fmt"

	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/constvars"
	"healthfirst-service/internal/pkg/dto/requests"
	"healthfirst-service/internal/pkg/dto/responses"
	"healthfirst-service/internal/pkg/exceptions"
	"healthfirst-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type SlotUsecase struct {
	slots  contracts.SlotRepository
	logger *zap.Logger
}

func NewSlotUsecase(slots contracts.SlotRepository, logger *zap.Logger) contracts.SlotUsecase {
	return &SlotUsecase{
		slots:  slots,
		logger: logger,
	}
}

func (u *SlotUsecase) UpdateSlot(ctx context.Context, slotID string, request *requests.UpdateSlot) (*responses.SlotDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("SlotUsecase.UpdateSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.String("target_status", request.Status),
	)

	fields := map[string]string{}
	if err := utils.ValidateStruct(request); err != nil {
		fields = exceptions.CollectValidationErrors(err)
	}
	target, parseErr := models.ParseSlotStatus(request.Status)
	if parseErr == nil && target == models.SlotStatusBooked && request.PatientID == "" {
		fields["patient_id"] = "required when booking a slot"
	}
	if len(fields) > 0 {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("slot update has %d violation(s)", len(fields)), fields)
	}

	if target == models.SlotStatusBooked {
		return u.bookSlot(ctx, slotID, request)
	}

	// allowed transitions into every non-booked status; the repository
	// enforces them atomically
	var from []models.SlotStatus
	switch target {
	case models.SlotStatusAvailable:
		from = []models.SlotStatus{models.SlotStatusBlocked}
	case models.SlotStatusBlocked:
		from = []models.SlotStatus{models.SlotStatusAvailable}
	case models.SlotStatusCancelled:
		from = []models.SlotStatus{models.SlotStatusAvailable, models.SlotStatusBooked}
	}

	updated, err := u.slots.UpdateStatus(ctx, slotID, from, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, u.classifyMiss(ctx, slotID, target)
	}

	u.logger.Info("SlotUsecase.UpdateSlot succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.String("status", string(updated.Status)),
	)
	detail := responses.NewSlotDetail(updated)
	return &detail, nil
}

func (u *SlotUsecase) bookSlot(ctx context.Context, slotID string, request *requests.UpdateSlot) (*responses.SlotDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	reference := request.BookingReference
	if reference == "" {
		reference = utils.GenerateBookingReference()
	}

	booked, err := u.slots.Book(ctx, slotID, request.PatientID, reference)
	if err != nil {
		return nil, err
	}
	if booked == nil {
		// the filter missed: either the slot is gone or someone else won
		current, findErr := u.slots.FindByID(ctx, slotID)
		if findErr != nil {
			return nil, findErr
		}
		if current == nil {
			return nil, exceptions.ErrSlotNotFound(fmt.Errorf("slot %s does not exist", slotID))
		}
		return nil, exceptions.ErrSlotUnavailable(fmt.Errorf("slot %s is %s", slotID, current.Status))
	}

	u.logger.Info("SlotUsecase.UpdateSlot booked slot",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.String("booking_reference", booked.BookingReference),
	)
	detail := responses.NewSlotDetail(booked)
	return &detail, nil
}

func (u *SlotUsecase) classifyMiss(ctx context.Context, slotID string, target models.SlotStatus) error {
	current, err := u.slots.FindByID(ctx, slotID)
	if err != nil {
		return err
	}
	if current == nil {
		return exceptions.ErrSlotNotFound(fmt.Errorf("slot %s does not exist", slotID))
	}
	return exceptions.ErrSlotInvalidTransition(fmt.Errorf("slot %s cannot move from %s to %s", slotID, current.Status, target))
}

func (u *SlotUsecase) DeleteSlot(ctx context.Context, slotID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("SlotUsecase.DeleteSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
	)

	// the repository refuses to remove a booked slot, so deleting first and
	// classifying the miss afterwards cannot lose a concurrent booking
	deleted, err := u.slots.Delete(ctx, slotID)
	if err != nil {
		return err
	}
	if !deleted {
		current, findErr := u.slots.FindByID(ctx, slotID)
		if findErr != nil {
			return findErr
		}
		if current != nil && current.Status == models.SlotStatusBooked {
			return exceptions.ErrSlotBookedNoDelete(fmt.Errorf("slot %s is booked", slotID))
		}
		return exceptions.ErrSlotNotFound(fmt.Errorf("slot %s does not exist", slotID))
	}

	u.logger.Info("SlotUsecase.DeleteSlot succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
	)
	return nil
}

func (u *SlotUsecase) SearchSlots(ctx context.Context, request *requests.SearchSlots) ([]responses.SlotDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("SlotUsecase.SearchSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
		zap.String("date", request.Date),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err, exceptions.CollectValidationErrors(err))
	}

	criteria := contracts.SlotSearchCriteria{
		ProviderID:      request.ProviderID,
		Date:            request.Date,
		Status:          models.SlotStatus(request.Status),
		AppointmentType: models.AppointmentType(request.AppointmentType),
	}
	slots, err := u.slots.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return responses.NewSlotDetails(slots), nil
}
