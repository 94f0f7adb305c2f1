package requests

// CreateAvailability carries the raw payload for POST /availability.
// Field rules mirror the data-model bounds; cross-field invariants
// (start < end, slot+break fits the window, recurrence fields, address
// requirement, horizon) are checked in the usecase after tag validation.
type CreateAvailability struct {
	ProviderID             string          `json:"provider_id" validate:"required"`
	Date                   string          `json:"date" validate:"required,iso_date"`
	StartTime              string          `json:"start_time" validate:"required,time_hhmm"`
	EndTime                string          `json:"end_time" validate:"required,time_hhmm"`
	Timezone               string          `json:"timezone" validate:"required,iana_tz"`
	IsRecurring            bool            `json:"is_recurring"`
	RecurrencePattern      string          `json:"recurrence_pattern,omitempty" validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceEndDate      string          `json:"recurrence_end_date,omitempty" validate:"omitempty,iso_date"`
	SlotDurationMinutes    int             `json:"slot_duration" validate:"required,min=5,max=240"`
	BreakDurationMinutes   int             `json:"break_duration" validate:"min=0,max=120"`
	MaxAppointmentsPerSlot int             `json:"max_appointments_per_slot" validate:"omitempty,min=1,max=20"`
	AppointmentType        string          `json:"appointment_type,omitempty" validate:"omitempty,oneof=consultation follow_up emergency telemedicine"`
	Location               LocationPayload `json:"location" validate:"required"`
	Pricing                *PricingPayload `json:"pricing,omitempty"`
	Notes                  string          `json:"notes,omitempty" validate:"max=500"`
	SpecialRequirements    []string        `json:"special_requirements,omitempty"`
}

type LocationPayload struct {
	Type       string `json:"type" validate:"required,oneof=clinic hospital telemedicine home_visit"`
	Address    string `json:"address,omitempty" validate:"max=200"`
	RoomNumber string `json:"room_number,omitempty" validate:"max=50"`
}

type PricingPayload struct {
	BaseFee           float64 `json:"base_fee" validate:"min=0"`
	InsuranceAccepted bool    `json:"insurance_accepted"`
	Currency          string  `json:"currency,omitempty"`
}

// GetProviderAvailability binds the query portion of
// GET /{provider_id}/availability.
type GetProviderAvailability struct {
	ProviderID string `validate:"required"`
	StartDate  string `validate:"omitempty,iso_date"`
	EndDate    string `validate:"omitempty,iso_date"`
}
