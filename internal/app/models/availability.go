package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AvailabilityStatus string

const (
	AvailabilityStatusAvailable   AvailabilityStatus = "available"
	AvailabilityStatusBooked      AvailabilityStatus = "booked"
	AvailabilityStatusCancelled   AvailabilityStatus = "cancelled"
	AvailabilityStatusBlocked     AvailabilityStatus = "blocked"
	AvailabilityStatusMaintenance AvailabilityStatus = "maintenance"
)

type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeFollowUp     AppointmentType = "follow_up"
	AppointmentTypeEmergency    AppointmentType = "emergency"
	AppointmentTypeTelemedicine AppointmentType = "telemedicine"
)

type LocationType string

const (
	LocationTypeClinic       LocationType = "clinic"
	LocationTypeHospital     LocationType = "hospital"
	LocationTypeTelemedicine LocationType = "telemedicine"
	LocationTypeHomeVisit    LocationType = "home_visit"
)

// Location describes where appointments derived from an availability take
// place. Address is required for every type except telemedicine.
type Location struct {
	Type       LocationType `bson:"type" json:"type"`
	Address    string       `bson:"address,omitempty" json:"address,omitempty"`
	RoomNumber string       `bson:"roomNumber,omitempty" json:"room_number,omitempty"`
}

type Pricing struct {
	BaseFee           float64 `bson:"baseFee" json:"base_fee"`
	InsuranceAccepted bool    `bson:"insuranceAccepted" json:"insurance_accepted"`
	Currency          string  `bson:"currency" json:"currency"`
}

// Availability is a provider's declared offering of bookable time on a
// calendar day (or a recurring pattern of days), with per-slot policy.
// Start/End are local wall-clock HH:MM paired with the IANA timezone.
type Availability struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProviderID             string             `bson:"providerId" json:"provider_id"`
	Date                   string             `bson:"date" json:"date"`
	StartTime              string             `bson:"startTime" json:"start_time"`
	EndTime                string             `bson:"endTime" json:"end_time"`
	Timezone               string             `bson:"timezone" json:"timezone"`
	IsRecurring            bool               `bson:"isRecurring" json:"is_recurring"`
	RecurrencePattern      RecurrencePattern  `bson:"recurrencePattern,omitempty" json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate      string             `bson:"recurrenceEndDate,omitempty" json:"recurrence_end_date,omitempty"`
	SlotDurationMinutes    int                `bson:"slotDurationMinutes" json:"slot_duration"`
	BreakDurationMinutes   int                `bson:"breakDurationMinutes" json:"break_duration"`
	MaxAppointmentsPerSlot int                `bson:"maxAppointmentsPerSlot" json:"max_appointments_per_slot"`
	AppointmentType        AppointmentType    `bson:"appointmentType" json:"appointment_type"`
	Location               Location           `bson:"location" json:"location"`
	Pricing                *Pricing           `bson:"pricing,omitempty" json:"pricing,omitempty"`
	Notes                  string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SpecialRequirements    []string           `bson:"specialRequirements,omitempty" json:"special_requirements,omitempty"`
	Status                 AvailabilityStatus `bson:"status" json:"status"`
	CreatedAt              time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updated_at"`
}

// TimezoneLocation resolves the record's IANA timezone identifier.
func (a *Availability) TimezoneLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

func ParseRecurrencePattern(s string) (RecurrencePattern, error) {
	switch RecurrencePattern(s) {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return RecurrencePattern(s), nil
	}
	return "", fmt.Errorf("unknown recurrence pattern: %q", s)
}

func ParseAppointmentType(s string) (AppointmentType, error) {
	switch AppointmentType(s) {
	case AppointmentTypeConsultation, AppointmentTypeFollowUp, AppointmentTypeEmergency, AppointmentTypeTelemedicine:
		return AppointmentType(s), nil
	}
	return "", fmt.Errorf("unknown appointment type: %q", s)
}

func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch AvailabilityStatus(s) {
	case AvailabilityStatusAvailable, AvailabilityStatusBooked, AvailabilityStatusCancelled,
		AvailabilityStatusBlocked, AvailabilityStatusMaintenance:
		return AvailabilityStatus(s), nil
	}
	return "", fmt.Errorf("unknown availability status: %q", s)
}
