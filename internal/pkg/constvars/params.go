package constvars

const (
	URLParamProviderID     = "provider_id"
	URLParamSlotID         = "slot_id"
	URLParamAvailabilityID = "availability_id"
)

const (
	URLQueryParamStartDate       = "start_date"
	URLQueryParamEndDate         = "end_date"
	URLQueryParamDate            = "date"
	URLQueryParamStatus          = "status"
	URLQueryParamProviderID      = "provider_id"
	URLQueryParamAppointmentType = "appointment_type"
)
