package contracts

import (
	"context"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/dto/requests"
	"healthfirst-service/internal/pkg/dto/responses"
)

// AvailabilityRepository is the storage boundary for availability records.
// Implementations must support indexed lookup by provider and by id; the
// usecase never touches the concrete store.
type AvailabilityRepository interface {
	Insert(ctx context.Context, availability *models.Availability) (string, error)
	FindByID(ctx context.Context, availabilityID string) (*models.Availability, error)
	FindByProvider(ctx context.Context, providerID string) ([]models.Availability, error)
	FindByProviderAndDateRange(ctx context.Context, providerID, startDate, endDate string) ([]models.Availability, error)
	Delete(ctx context.Context, availabilityID string) error
}

type AvailabilityUsecase interface {
	CreateAvailability(ctx context.Context, request *requests.CreateAvailability) (*responses.AvailabilityCreated, error)
	GetProviderAvailability(ctx context.Context, request *requests.GetProviderAvailability) ([]responses.AvailabilityDetail, error)
	DeleteAvailability(ctx context.Context, availabilityID string) error
}
