package slots

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/constvars"
	"healthfirst-service/internal/pkg/dto/requests"
	"healthfirst-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memorySlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func newMemorySlotRepo() *memorySlotRepo {
	return &memorySlotRepo{slots: map[string]*models.Slot{}}
}

func (m *memorySlotRepo) seed(status models.SlotStatus) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	m.slots[id.Hex()] = &models.Slot{
		ID:              id,
		AvailabilityID:  "avail-1",
		ProviderID:      "prov-1",
		Date:            "2026-09-07",
		StartTime:       start,
		EndTime:         start.Add(30 * time.Minute),
		Status:          status,
		AppointmentType: models.AppointmentTypeConsultation,
	}
	return id.Hex()
}

func (m *memorySlotRepo) InsertMany(ctx context.Context, slots []models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range slots {
		s := slots[i]
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		m.slots[s.ID.Hex()] = &s
	}
	return nil
}

func (m *memorySlotRepo) FindByID(ctx context.Context, slotID string) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *memorySlotRepo) Search(ctx context.Context, criteria contracts.SlotSearchCriteria) ([]models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slot
	for _, s := range m.slots {
		if criteria.ProviderID != "" && s.ProviderID != criteria.ProviderID {
			continue
		}
		if criteria.Date != "" && s.Date != criteria.Date {
			continue
		}
		if criteria.Status != "" && s.Status != criteria.Status {
			continue
		}
		if criteria.AppointmentType != "" && s.AppointmentType != criteria.AppointmentType {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *memorySlotRepo) Book(ctx context.Context, slotID, patientID, bookingReference string) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok || s.Status != models.SlotStatusAvailable {
		return nil, nil
	}
	s.Status = models.SlotStatusBooked
	s.PatientID = patientID
	s.BookingReference = bookingReference
	out := *s
	return &out, nil
}

func (m *memorySlotRepo) UpdateStatus(ctx context.Context, slotID string, from []models.SlotStatus, to models.SlotStatus) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok {
		return nil, nil
	}
	for _, allowed := range from {
		if s.Status == allowed {
			s.Status = to
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memorySlotRepo) Delete(ctx context.Context, slotID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok || s.Status == models.SlotStatusBooked {
		return false, nil
	}
	delete(m.slots, slotID)
	return true, nil
}

func (m *memorySlotRepo) DeleteByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, s := range m.slots {
		if s.AvailabilityID == availabilityID && s.Status != models.SlotStatusBooked {
			delete(m.slots, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memorySlotRepo) CountBookedByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.slots {
		if s.AvailabilityID == availabilityID && s.Status == models.SlotStatusBooked {
			n++
		}
	}
	return n, nil
}

func (m *memorySlotRepo) DeleteExpiredAvailable(ctx context.Context, providerID string, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, s := range m.slots {
		if s.Status != models.SlotStatusAvailable {
			continue
		}
		if providerID != "" && s.ProviderID != providerID {
			continue
		}
		if s.EndTime.Before(before) {
			delete(m.slots, id)
			removed++
		}
	}
	return removed, nil
}

func newTestSlotUsecase() (contracts.SlotUsecase, *memorySlotRepo) {
	repo := newMemorySlotRepo()
	return NewSlotUsecase(repo, zap.NewNop()), repo
}

func TestUpdateSlot_BookingWinsOnce(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	slotID := repo.seed(models.SlotStatusAvailable)

	detail, err := uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{
		Status:    "booked",
		PatientID: "patient-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusBooked, detail.Status)
	assert.Equal(t, "patient-1", detail.PatientID)
	assert.True(t, strings.HasPrefix(detail.BookingReference, "BK-"), "reference %q should carry the BK prefix", detail.BookingReference)
}

func TestUpdateSlot_ConcurrentBookingHasExactlyOneWinner(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	slotID := repo.seed(models.SlotStatusAvailable)

	const contenders = 16
	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{
				Status:    "booked",
				PatientID: "patient-racer",
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		losses++
		assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, contenders-1, losses)
}

func TestUpdateSlot_BookingRequiresPatient(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	slotID := repo.seed(models.SlotStatusAvailable)

	_, err := uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{Status: "booked"})
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Contains(t, customErr.Fields, "patient_id")
}

func TestUpdateSlot_Transitions(t *testing.T) {
	t.Run("available to blocked and back", func(t *testing.T) {
		uc, repo := newTestSlotUsecase()
		slotID := repo.seed(models.SlotStatusAvailable)

		detail, err := uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{Status: "blocked"})
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusBlocked, detail.Status)

		detail, err = uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{Status: "available"})
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusAvailable, detail.Status)
	})

	t.Run("booked to cancelled", func(t *testing.T) {
		uc, repo := newTestSlotUsecase()
		slotID := repo.seed(models.SlotStatusBooked)

		detail, err := uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusCancelled, detail.Status)
	})

	t.Run("cancelled cannot be revived", func(t *testing.T) {
		uc, repo := newTestSlotUsecase()
		slotID := repo.seed(models.SlotStatusCancelled)

		_, err := uc.UpdateSlot(context.Background(), slotID, &requests.UpdateSlot{Status: "available"})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
	})

	t.Run("unknown slot", func(t *testing.T) {
		uc, _ := newTestSlotUsecase()

		_, err := uc.UpdateSlot(context.Background(), primitive.NewObjectID().Hex(), &requests.UpdateSlot{Status: "blocked"})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})
}

func TestDeleteSlot_BookedRefused(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	slotID := repo.seed(models.SlotStatusBooked)

	err := uc.DeleteSlot(context.Background(), slotID)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))

	still, err := repo.FindByID(context.Background(), slotID)
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, models.SlotStatusBooked, still.Status)
}

func TestDeleteSlot_BookingRaceLeavesSlotIntact(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	slotID := repo.seed(models.SlotStatusAvailable)

	// a booking that reaches the store before the delete must survive it
	booked, err := repo.Book(context.Background(), slotID, "patient-race", "BK-RACE0001")
	require.NoError(t, err)
	require.NotNil(t, booked)

	err = uc.DeleteSlot(context.Background(), slotID)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))

	still, err := repo.FindByID(context.Background(), slotID)
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, models.SlotStatusBooked, still.Status)
	assert.Equal(t, "patient-race", still.PatientID)
}

func TestDeleteSlot_AvailableRemoved(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	slotID := repo.seed(models.SlotStatusAvailable)

	require.NoError(t, uc.DeleteSlot(context.Background(), slotID))

	err := uc.DeleteSlot(context.Background(), slotID)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
}

func TestSearchSlots_FiltersAreConjunctive(t *testing.T) {
	uc, repo := newTestSlotUsecase()
	availableID := repo.seed(models.SlotStatusAvailable)
	repo.seed(models.SlotStatusBooked)

	out, err := uc.SearchSlots(context.Background(), &requests.SearchSlots{
		ProviderID: "prov-1",
		Date:       "2026-09-07",
		Status:     "available",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, availableID, out[0].ID)

	all, err := uc.SearchSlots(context.Background(), &requests.SearchSlots{ProviderID: "prov-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := uc.SearchSlots(context.Background(), &requests.SearchSlots{Status: "blocked"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchSlots_RejectsUnknownStatus(t *testing.T) {
	uc, _ := newTestSlotUsecase()

	_, err := uc.SearchSlots(context.Background(), &requests.SearchSlots{Status: "nope"})
	require.Error(t, err)
	assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
}
