package contracts

import (
	"context"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/dto/requests"
	"healthfirst-service/internal/pkg/dto/responses"
	"time"
)

// SlotSearchCriteria are equality predicates combined with AND; zero values
// are ignored.
type SlotSearchCriteria struct {
	ProviderID      string
	Date            string
	Status          models.SlotStatus
	AppointmentType models.AppointmentType
}

// SlotRepository is the storage boundary for slots. Book and UpdateStatus
// are single-document compare-and-set operations: they return (nil, nil)
// when the slot exists but its current status no longer matches, so the
// usecase can distinguish a lost race from a missing document. Delete and
// DeleteByAvailabilityID are conditional the same way: booked slots never
// match their filters, so a booking that lands mid-flight cannot be
// destroyed. Delete reports whether a document was actually removed.
type SlotRepository interface {
	InsertMany(ctx context.Context, slots []models.Slot) error
	FindByID(ctx context.Context, slotID string) (*models.Slot, error)
	Search(ctx context.Context, criteria SlotSearchCriteria) ([]models.Slot, error)
	Book(ctx context.Context, slotID, patientID, bookingReference string) (*models.Slot, error)
	UpdateStatus(ctx context.Context, slotID string, from []models.SlotStatus, to models.SlotStatus) (*models.Slot, error)
	Delete(ctx context.Context, slotID string) (bool, error)
	DeleteByAvailabilityID(ctx context.Context, availabilityID string) (int64, error)
	CountBookedByAvailabilityID(ctx context.Context, availabilityID string) (int64, error)
	DeleteExpiredAvailable(ctx context.Context, providerID string, before time.Time) (int64, error)
}

type SlotUsecase interface {
	UpdateSlot(ctx context.Context, slotID string, request *requests.UpdateSlot) (*responses.SlotDetail, error)
	DeleteSlot(ctx context.Context, slotID string) error
	SearchSlots(ctx context.Context, request *requests.SearchSlots) ([]responses.SlotDetail, error)
}
