package availability

import (
	"context"
	"fmt"
	"time"

	"healthfirst-service/internal/app/config"
	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/constvars"
	"healthfirst-service/internal/pkg/dto/requests"
	"healthfirst-service/internal/pkg/dto/responses"
	"healthfirst-service/internal/pkg/exceptions"
	"healthfirst-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AvailabilityUsecase struct {
	availabilities contracts.AvailabilityRepository
	slots          contracts.SlotRepository
	locker         contracts.LockerService
	config         *config.InternalConfig
	logger         *zap.Logger
}

func NewAvailabilityUsecase(
	availabilities contracts.AvailabilityRepository,
	slots contracts.SlotRepository,
	locker contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AvailabilityUsecase {
	return &AvailabilityUsecase{
		availabilities: availabilities,
		slots:          slots,
		locker:         locker,
		config:         internalConfig,
		logger:         logger,
	}
}

func (u *AvailabilityUsecase) CreateAvailability(ctx context.Context, request *requests.CreateAvailability) (*responses.AvailabilityCreated, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("AvailabilityUsecase.CreateAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
	)

	fields := map[string]string{}
	if err := utils.ValidateStruct(request); err != nil {
		fields = exceptions.CollectValidationErrors(err)
	}
	u.validateCrossField(request, fields)
	if len(fields) > 0 {
		u.logger.Info("AvailabilityUsecase.CreateAvailability rejected invalid payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("violations", len(fields)),
		)
		return nil, exceptions.ErrInputValidation(fmt.Errorf("availability payload has %d violation(s)", len(fields)), fields)
	}

	av := buildAvailability(request)
	loc, err := av.TimezoneLocation()
	if err != nil {
		return nil, exceptions.ErrInputValidation(err, map[string]string{"timezone": "must be a valid IANA timezone identifier"})
	}

	// conflict detection and expansion run under a per-provider mutex so
	// two concurrent creates cannot both pass the overlap check
	lockKey := constvars.LockKeyProviderPrefix + av.ProviderID
	lockTTL := time.Duration(u.config.App.LockTTLSeconds) * time.Second
	acquired, lockValue, err := u.locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrAvailabilityLockDenied(fmt.Errorf("provider %s is locked", av.ProviderID))
	}
	defer func() {
		if unlockErr := u.locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			u.logger.Error("AvailabilityUsecase.CreateAvailability failed releasing provider lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	now := time.Now().In(loc)
	horizonEnd := now.AddDate(0, 0, u.config.App.AvailabilityHorizonDays)

	existing, err := u.availabilities.FindByProvider(ctx, av.ProviderID)
	if err != nil {
		return nil, err
	}
	conflicts, err := findConflictWindows(av, existing, loc, horizonEnd)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err, map[string]string{"date": err.Error()})
	}
	if len(conflicts) > 0 {
		first := conflicts[0]
		u.logger.Info("AvailabilityUsecase.CreateAvailability rejected overlapping window",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderIDKey, av.ProviderID),
			zap.Time("conflict_start", first.Start),
			zap.Time("conflict_end", first.End),
		)
		return nil, exceptions.ErrAvailabilityConflict(
			fmt.Errorf("window %s-%s overlaps an existing availability", first.Start.Format(time.RFC3339), first.End.Format(time.RFC3339)))
	}

	av.CreatedAt = now
	av.UpdatedAt = now
	insertedID, err := u.availabilities.Insert(ctx, av)
	if err != nil {
		return nil, err
	}
	objectID, err := primitive.ObjectIDFromHex(insertedID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	av.ID = objectID

	slots, err := expandSlots(av, loc, horizonEnd, now)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err, map[string]string{"date": err.Error()})
	}
	if len(slots) > 0 {
		if err := u.slots.InsertMany(ctx, slots); err != nil {
			return nil, err
		}
	}

	u.logger.Info("AvailabilityUsecase.CreateAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAvailabilityIDKey, insertedID),
		zap.Int("slots_created", len(slots)),
	)
	return &responses.AvailabilityCreated{
		Availability: responses.NewAvailabilityDetail(av),
		SlotsCreated: len(slots),
	}, nil
}

func (u *AvailabilityUsecase) GetProviderAvailability(ctx context.Context, request *requests.GetProviderAvailability) ([]responses.AvailabilityDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("AvailabilityUsecase.GetProviderAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err, exceptions.CollectValidationErrors(err))
	}
	if request.StartDate != "" && request.EndDate == "" {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("partial date range"), map[string]string{"end_date": "required when start_date is set"})
	}
	if request.EndDate != "" && request.StartDate == "" {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("partial date range"), map[string]string{"start_date": "required when end_date is set"})
	}

	var (
		records []models.Availability
		err     error
	)
	if request.StartDate != "" && request.EndDate != "" {
		records, err = u.availabilities.FindByProviderAndDateRange(ctx, request.ProviderID, request.StartDate, request.EndDate)
	} else {
		records, err = u.availabilities.FindByProvider(ctx, request.ProviderID)
	}
	if err != nil {
		return nil, err
	}

	details := make([]responses.AvailabilityDetail, 0, len(records))
	for i := range records {
		details = append(details, responses.NewAvailabilityDetail(&records[i]))
	}
	return details, nil
}

func (u *AvailabilityUsecase) DeleteAvailability(ctx context.Context, availabilityID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("AvailabilityUsecase.DeleteAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAvailabilityIDKey, availabilityID),
	)

	record, err := u.availabilities.FindByID(ctx, availabilityID)
	if err != nil {
		return err
	}
	if record == nil {
		return exceptions.ErrAvailabilityNotFound(fmt.Errorf("availability %s does not exist", availabilityID))
	}

	lockKey := constvars.LockKeyProviderPrefix + record.ProviderID
	lockTTL := time.Duration(u.config.App.LockTTLSeconds) * time.Second
	acquired, lockValue, err := u.locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return exceptions.ErrAvailabilityLockDenied(fmt.Errorf("provider %s is locked", record.ProviderID))
	}
	defer func() {
		if unlockErr := u.locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			u.logger.Error("AvailabilityUsecase.DeleteAvailability failed releasing provider lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	booked, err := u.slots.CountBookedByAvailabilityID(ctx, availabilityID)
	if err != nil {
		return err
	}
	if booked > 0 {
		return exceptions.ErrAvailabilityHasBookings(fmt.Errorf("availability %s still has %d booked slot(s)", availabilityID, booked))
	}

	removed, err := u.slots.DeleteByAvailabilityID(ctx, availabilityID)
	if err != nil {
		return err
	}

	// Book does not take the provider lock, so a booking can land between
	// the count above and the cascade. The cascade never touches booked
	// slots; re-count before dropping the record so such a booking survives.
	booked, err = u.slots.CountBookedByAvailabilityID(ctx, availabilityID)
	if err != nil {
		return err
	}
	if booked > 0 {
		return exceptions.ErrAvailabilityHasBookings(fmt.Errorf("availability %s was booked during deletion", availabilityID))
	}

	if err := u.availabilities.Delete(ctx, availabilityID); err != nil {
		return err
	}

	u.logger.Info("AvailabilityUsecase.DeleteAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAvailabilityIDKey, availabilityID),
		zap.Int64("slots_removed", removed),
	)
	return nil
}

// validateCrossField appends the invariants tag validation cannot express.
// Violations accumulate so the caller sees every problem at once.
func (u *AvailabilityUsecase) validateCrossField(request *requests.CreateAvailability, fields map[string]string) {
	start, startErr := parseClock(request.StartTime)
	end, endErr := parseClock(request.EndTime)
	if startErr == nil && endErr == nil {
		window := end.minutes() - start.minutes()
		if start.minutes() >= end.minutes() {
			fields["end_time"] = "must be after start_time"
		} else if request.SlotDurationMinutes > 0 && window < request.SlotDurationMinutes {
			fields["slot_duration"] = "no slot of this length fits between start_time and end_time"
		} else if request.SlotDurationMinutes > 0 && request.SlotDurationMinutes+request.BreakDurationMinutes > window {
			fields["break_duration"] = "slot_duration plus break_duration must fit between start_time and end_time"
		}
	}

	if request.Location.Type != "" && request.Location.Type != string(models.LocationTypeTelemedicine) && request.Location.Address == "" {
		fields["location.address"] = "required unless location type is telemedicine"
	}

	loc, locErr := time.LoadLocation(request.Timezone)
	if locErr != nil {
		loc = time.UTC
	}
	today := time.Now().In(loc).Format(constvars.DateLayoutYYYYMMDD)
	horizon := time.Now().In(loc).AddDate(0, 0, u.config.App.AvailabilityHorizonDays).Format(constvars.DateLayoutYYYYMMDD)

	if request.IsRecurring {
		if request.RecurrencePattern == "" {
			fields["recurrence_pattern"] = "required when is_recurring is true"
		}
		if request.RecurrenceEndDate == "" {
			fields["recurrence_end_date"] = "required when is_recurring is true"
		} else if request.Date != "" && request.RecurrenceEndDate <= request.Date {
			fields["recurrence_end_date"] = "must be after date"
		} else if request.RecurrenceEndDate > horizon {
			fields["recurrence_end_date"] = fmt.Sprintf("must be within %d days from today", u.config.App.AvailabilityHorizonDays)
		}
	} else if request.RecurrencePattern != "" || request.RecurrenceEndDate != "" {
		fields["is_recurring"] = "must be true when recurrence fields are set"
	}

	if request.Date != "" {
		if _, ok := fields["date"]; !ok {
			if request.Date < today {
				fields["date"] = "must not be in the past"
			} else if request.Date > horizon {
				fields["date"] = fmt.Sprintf("must be within %d days from today", u.config.App.AvailabilityHorizonDays)
			}
		}
	}
}

func buildAvailability(request *requests.CreateAvailability) *models.Availability {
	av := &models.Availability{
		ProviderID:             request.ProviderID,
		Date:                   request.Date,
		StartTime:              request.StartTime,
		EndTime:                request.EndTime,
		Timezone:               request.Timezone,
		IsRecurring:            request.IsRecurring,
		RecurrencePattern:      models.RecurrencePattern(request.RecurrencePattern),
		RecurrenceEndDate:      request.RecurrenceEndDate,
		SlotDurationMinutes:    request.SlotDurationMinutes,
		BreakDurationMinutes:   request.BreakDurationMinutes,
		MaxAppointmentsPerSlot: request.MaxAppointmentsPerSlot,
		AppointmentType:        models.AppointmentType(request.AppointmentType),
		Location: models.Location{
			Type:       models.LocationType(request.Location.Type),
			Address:    request.Location.Address,
			RoomNumber: request.Location.RoomNumber,
		},
		Notes:               request.Notes,
		SpecialRequirements: request.SpecialRequirements,
		Status:              models.AvailabilityStatusAvailable,
	}
	if request.Pricing != nil {
		av.Pricing = &models.Pricing{
			BaseFee:           request.Pricing.BaseFee,
			InsuranceAccepted: request.Pricing.InsuranceAccepted,
			Currency:          request.Pricing.Currency,
		}
	}
	if av.MaxAppointmentsPerSlot == 0 {
		av.MaxAppointmentsPerSlot = 1
	}
	if av.AppointmentType == "" {
		av.AppointmentType = models.AppointmentTypeConsultation
	}
	if av.Pricing != nil && av.Pricing.Currency == "" {
		av.Pricing.Currency = "USD"
	}
	return av
}
