package responses

import "healthfirst-service/internal/app/models"

// AvailabilityDetail is the availability record as returned to clients,
// with the Mongo ObjectID flattened to a hex string.
type AvailabilityDetail struct {
	ID string `json:"id"`
	models.Availability
}

// AvailabilityCreated is the POST /availability response body: the stored
// record plus the number of slots the expansion produced.
type AvailabilityCreated struct {
	Availability AvailabilityDetail `json:"availability"`
	SlotsCreated int                `json:"slots_created"`
}

func NewAvailabilityDetail(a *models.Availability) AvailabilityDetail {
	return AvailabilityDetail{
		ID:           a.ID.Hex(),
		Availability: *a,
	}
}
