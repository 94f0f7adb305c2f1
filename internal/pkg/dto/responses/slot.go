package responses

import "healthfirst-service/internal/app/models"

type SlotDetail struct {
	ID string `json:"id"`
	models.Slot
}

func NewSlotDetail(s *models.Slot) SlotDetail {
	return SlotDetail{
		ID:   s.ID.Hex(),
		Slot: *s,
	}
}

func NewSlotDetails(slots []models.Slot) []SlotDetail {
	out := make([]SlotDetail, 0, len(slots))
	for i := range slots {
		out = append(out, NewSlotDetail(&slots[i]))
	}
	return out
}
