package requests

// UpdateSlot carries the payload for PUT /{slot_id}. Status drives the
// transition; patient_id is required when transitioning to booked.
type UpdateSlot struct {
	Status           string `json:"status" validate:"required,oneof=available booked cancelled blocked"`
	PatientID        string `json:"patient_id,omitempty"`
	BookingReference string `json:"booking_reference,omitempty" validate:"max=100"`
}

// SearchSlots binds the query portion of GET /search. All predicates are
// optional equality filters combined with AND.
type SearchSlots struct {
	Date            string `validate:"omitempty,iso_date"`
	Status          string `validate:"omitempty,oneof=available booked cancelled blocked"`
	ProviderID      string
	AppointmentType string `validate:"omitempty,oneof=consultation follow_up emergency telemedicine"`
}
