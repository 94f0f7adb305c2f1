package constvars

// Validation messages keyed by validator tag.
var CustomValidationErrorMessages = map[string]string{
	"required":   "is required",
	"min":        "must be at least %s",
	"max":        "must be at most %s",
	"oneof":      "must be one of: %s",
	"time_hhmm":  "must be a valid time in HH:MM format",
	"iso_date":   "must be a valid date in YYYY-MM-DD format",
	"iana_tz":    "must be a valid IANA timezone identifier",
	"gtfield":    "must be after %s",
	"dive":       "is invalid",
	"omitempty":  "is invalid",
	"numeric":    "must be a number",
	"gte":        "must be at least %s",
	"lte":        "must be at most %s",
	"uuid":       "must be a valid id",
	"alphanum":   "must contain only alphanumeric characters",
	"startswith": "must start with %s",
}

// Tags whose message carries the tag parameter.
var TagsWithParams = map[string]bool{
	"min":     true,
	"max":     true,
	"oneof":   true,
	"gtfield": true,
	"gte":     true,
	"lte":     true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "something is wrong with the application, please try again later"
	ErrClientServerLongRespond             = "server took too long to respond"
	ErrClientAvailabilityConflict          = "the requested time overlaps an existing availability for this provider"
	ErrClientAvailabilityLocked            = "another change for this provider is in progress, please retry"
	ErrClientAvailabilityNotFound          = "availability not found"
	ErrClientAvailabilityHasBookings       = "availability has booked slots and cannot be deleted"
	ErrClientSlotNotFound                  = "slot not found"
	ErrClientSlotUnavailable               = "slot is no longer available"
	ErrClientSlotBookedNoDelete            = "booked slots cannot be deleted"
	ErrClientSlotInvalidTransition         = "requested slot status change is not allowed"
	ErrClientTooManyRequests               = "too many requests, please slow down"
)

// Error messages for developers
const (
	ErrDevValidationFailed           = "Request validation failed"
	ErrDevInvalidRequestPayload      = "Invalid request payload"
	ErrDevURLParamIDValidationFailed = "Failed to validate URL param: %s"
	ErrDevInvalidFormat              = "Invalid format from source: %s"
	ErrDevCannotMarshalJSON          = "Cannot marshal data into JSON"
	ErrDevServerDeadlineExceeded     = "Request processing exceeded the deadline"

	ErrDevMongoDBFailedToInsertDocument = "MongoDB failed to insert document"
	ErrDevMongoDBFailedToFindDocument   = "MongoDB failed to find document"
	ErrDevMongoDBFailedToUpdateDocument = "MongoDB failed to update document"
	ErrDevMongoDBFailedToDeleteDocument = "MongoDB failed to delete document"
	ErrDevMongoDBNotObjectID            = "Supplied id is not a valid ObjectID"

	ErrDevRedisFailedToSetData    = "Redis failed to set data"
	ErrDevRedisFailedToGetData    = "Redis failed to get data for key: %s"
	ErrDevRedisFailedToDeleteData = "Redis failed to delete data"
	ErrDevRedisFailedToUnlock     = "Redis failed to release lock"

	ErrDevAvailabilityConflict    = "Availability overlaps an existing record for the provider"
	ErrDevAvailabilityLockDenied  = "Could not acquire provider lock"
	ErrDevAvailabilityNotFound    = "Availability record does not exist"
	ErrDevAvailabilityHasBookings = "Availability still owns booked slots"
	ErrDevSlotNotFound            = "Slot does not exist"
	ErrDevSlotUnavailable         = "Slot booking lost compare-and-set race"
	ErrDevSlotBookedNoDelete      = "Refusing to delete a booked slot"
	ErrDevSlotInvalidTransition   = "Slot status transition not permitted"
)

const (
	ResponseUnknown = "unknown"
)
