package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
	SlotStatusBlocked   SlotStatus = "blocked"
)

// Slot is one concrete bookable interval derived from an Availability.
// StartTime/EndTime are absolute timestamps; Date is the local calendar day
// (in the owning record's timezone) kept denormalized for equality search.
type Slot struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	AvailabilityID   string             `bson:"availabilityId" json:"availability_id"`
	ProviderID       string             `bson:"providerId" json:"provider_id"`
	Date             string             `bson:"date" json:"date"`
	StartTime        time.Time          `bson:"startTime" json:"slot_start_time"`
	EndTime          time.Time          `bson:"endTime" json:"slot_end_time"`
	Status           SlotStatus         `bson:"status" json:"status"`
	PatientID        string             `bson:"patientId,omitempty" json:"patient_id,omitempty"`
	AppointmentType  AppointmentType    `bson:"appointmentType" json:"appointment_type"`
	BookingReference string             `bson:"bookingReference,omitempty" json:"booking_reference,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updated_at"`
}

func ParseSlotStatus(s string) (SlotStatus, error) {
	switch SlotStatus(s) {
	case SlotStatusAvailable, SlotStatusBooked, SlotStatusCancelled, SlotStatusBlocked:
		return SlotStatus(s), nil
	}
	return "", fmt.Errorf("unknown slot status: %q", s)
}
