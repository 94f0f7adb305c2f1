package constvars

const (
	SuccessMessageDefault      = "OK"
	SuccessMessageCreated      = "Created"
	SuccessAvailabilityCreated = "Availability created"
	SuccessAvailabilityDeleted = "Availability deleted"
	SuccessAvailabilityFetched = "Availability fetched"
	SuccessSlotUpdated         = "Slot updated"
	SuccessSlotDeleted         = "Slot deleted"
	SuccessSlotsFetched        = "Slots fetched"
)
