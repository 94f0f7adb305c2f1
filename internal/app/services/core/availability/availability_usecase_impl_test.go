package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"healthfirst-service/internal/app/config"
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

type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	records map[string]models.Availability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{records: map[string]models.Availability{}}
}

func (f *fakeAvailabilityRepo) Insert(ctx context.Context, availability *models.Availability) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	availability.ID = id
	f.records[id.Hex()] = *availability
	return id.Hex(), nil
}

func (f *fakeAvailabilityRepo) FindByID(ctx context.Context, availabilityID string) (*models.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[availabilityID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeAvailabilityRepo) FindByProvider(ctx context.Context, providerID string) ([]models.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Availability
	for _, rec := range f.records {
		if rec.ProviderID == providerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) FindByProviderAndDateRange(ctx context.Context, providerID, startDate, endDate string) ([]models.Availability, error) {
	all, _ := f.FindByProvider(ctx, providerID)
	var out []models.Availability
	for _, rec := range all {
		if rec.IsRecurring && rec.Date <= endDate {
			out = append(out, rec)
			continue
		}
		if rec.Date >= startDate && rec.Date <= endDate {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Delete(ctx context.Context, availabilityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[availabilityID]; !ok {
		return exceptions.ErrAvailabilityNotFound(errors.New("missing"))
	}
	delete(f.records, availabilityID)
	return nil
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots []models.Slot
}

func (f *fakeSlotRepo) InsertMany(ctx context.Context, slots []models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range slots {
		if slots[i].ID.IsZero() {
			slots[i].ID = primitive.NewObjectID()
		}
	}
	f.slots = append(f.slots, slots...)
	return nil
}

func (f *fakeSlotRepo) FindByID(ctx context.Context, slotID string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.slots {
		if s.ID.Hex() == slotID {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) Search(ctx context.Context, criteria contracts.SlotSearchCriteria) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Slot
	for _, s := range f.slots {
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
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSlotRepo) Book(ctx context.Context, slotID, patientID, bookingReference string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.slots {
		if f.slots[i].ID.Hex() != slotID {
			continue
		}
		if f.slots[i].Status != models.SlotStatusAvailable {
			return nil, nil
		}
		f.slots[i].Status = models.SlotStatusBooked
		f.slots[i].PatientID = patientID
		f.slots[i].BookingReference = bookingReference
		out := f.slots[i]
		return &out, nil
	}
	return nil, exceptions.ErrSlotNotFound(errors.New("missing"))
}

func (f *fakeSlotRepo) UpdateStatus(ctx context.Context, slotID string, from []models.SlotStatus, to models.SlotStatus) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.slots {
		if f.slots[i].ID.Hex() != slotID {
			continue
		}
		for _, allowed := range from {
			if f.slots[i].Status == allowed {
				f.slots[i].Status = to
				out := f.slots[i]
				return &out, nil
			}
		}
		return nil, nil
	}
	return nil, exceptions.ErrSlotNotFound(errors.New("missing"))
}

func (f *fakeSlotRepo) Delete(ctx context.Context, slotID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.slots {
		if f.slots[i].ID.Hex() == slotID && f.slots[i].Status != models.SlotStatusBooked {
			f.slots = append(f.slots[:i], f.slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) DeleteByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Slot
	var removed int64
	for _, s := range f.slots {
		if s.AvailabilityID == availabilityID && s.Status != models.SlotStatusBooked {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	f.slots = kept
	return removed, nil
}

func (f *fakeSlotRepo) CountBookedByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.slots {
		if s.AvailabilityID == availabilityID && s.Status == models.SlotStatusBooked {
			n++
		}
	}
	return n, nil
}

func (f *fakeSlotRepo) DeleteExpiredAvailable(ctx context.Context, providerID string, before time.Time) (int64, error) {
	return 0, nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.held[key]; busy {
		return false, "", nil
	}
	token := fmt.Sprintf("tok-%d", len(f.held)+1)
	f.held[key] = token
	return true, token, nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] == lockValue {
		delete(f.held, key)
	}
	return nil
}

func (f *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{App: config.App{
		Env:                     "development",
		AvailabilityHorizonDays: 90,
		LockTTLSeconds:          30,
	}}
}

func newTestUsecase() (contracts.AvailabilityUsecase, *fakeAvailabilityRepo, *fakeSlotRepo, *fakeLocker) {
	availRepo := newFakeAvailabilityRepo()
	slotRepo := &fakeSlotRepo{}
	locker := newFakeLocker()
	uc := NewAvailabilityUsecase(availRepo, slotRepo, locker, testConfig(), zap.NewNop())
	return uc, availRepo, slotRepo, locker
}

func validCreateRequest() *requests.CreateAvailability {
	date := time.Now().AddDate(0, 0, 7).Format(constvars.DateLayoutYYYYMMDD)
	return &requests.CreateAvailability{
		ProviderID:          "prov-1",
		Date:                date,
		StartTime:           "09:00",
		EndTime:             "10:00",
		Timezone:            "America/New_York",
		SlotDurationMinutes: 30,
		Location:            requests.LocationPayload{Type: "clinic", Address: "12 Main St"},
	}
}

func TestCreateAvailability_ExpandsSlots(t *testing.T) {
	uc, _, slotRepo, _ := newTestUsecase()

	out, err := uc.CreateAvailability(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, out.SlotsCreated)
	assert.NotEmpty(t, out.Availability.ID)
	assert.Equal(t, models.AvailabilityStatusAvailable, out.Availability.Status)
	assert.Len(t, slotRepo.slots, 2)
	assert.Equal(t, 1, out.Availability.MaxAppointmentsPerSlot)
	assert.Equal(t, models.AppointmentTypeConsultation, out.Availability.AppointmentType)
}

func TestCreateAvailability_CollectsEveryViolation(t *testing.T) {
	uc, _, _, _ := newTestUsecase()

	req := validCreateRequest()
	req.StartTime = "17:00"
	req.EndTime = "09:00"
	req.SlotDurationMinutes = 3
	req.Location = requests.LocationPayload{Type: "clinic"}
	req.IsRecurring = true

	_, err := uc.CreateAvailability(context.Background(), req)
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Contains(t, customErr.Fields, "slot_duration")
	assert.Contains(t, customErr.Fields, "end_time")
	assert.Contains(t, customErr.Fields, "location.address")
	assert.Contains(t, customErr.Fields, "recurrence_pattern")
	assert.Contains(t, customErr.Fields, "recurrence_end_date")
}

func TestCreateAvailability_RejectsBreakThatOverflowsWindow(t *testing.T) {
	uc, _, slotRepo, _ := newTestUsecase()

	// 30+40 minutes cannot fit the 09:00-10:00 hour even though one bare
	// slot would
	req := validCreateRequest()
	req.BreakDurationMinutes = 40

	_, err := uc.CreateAvailability(context.Background(), req)
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Contains(t, customErr.Fields, "break_duration")
	assert.Empty(t, slotRepo.slots)
}

func TestCreateAvailability_RecurrenceEndBeyondHorizonRejected(t *testing.T) {
	uc, availRepo, slotRepo, _ := newTestUsecase()

	req := validCreateRequest()
	req.IsRecurring = true
	req.RecurrencePattern = "daily"
	req.RecurrenceEndDate = time.Now().AddDate(2, 0, 0).Format(constvars.DateLayoutYYYYMMDD)

	_, err := uc.CreateAvailability(context.Background(), req)
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Contains(t, customErr.Fields, "recurrence_end_date")
	assert.Empty(t, availRepo.records)
	assert.Empty(t, slotRepo.slots)
}

func TestCreateAvailability_RejectsOverlap(t *testing.T) {
	uc, _, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	second := validCreateRequest()
	second.StartTime = "09:30"
	second.EndTime = "11:00"
	_, err = uc.CreateAvailability(ctx, second)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))
}

func TestCreateAvailability_AdjacentWindowsAccepted(t *testing.T) {
	uc, _, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	next := validCreateRequest()
	next.StartTime = "10:00"
	next.EndTime = "11:00"
	_, err = uc.CreateAvailability(ctx, next)
	assert.NoError(t, err)
}

func TestCreateAvailability_OtherProvidersDoNotConflict(t *testing.T) {
	uc, _, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	other := validCreateRequest()
	other.ProviderID = "prov-2"
	_, err = uc.CreateAvailability(ctx, other)
	assert.NoError(t, err)
}

func TestCreateAvailability_LockDenied(t *testing.T) {
	uc, _, _, locker := newTestUsecase()

	_, _, err := locker.TryLock(context.Background(), constvars.LockKeyProviderPrefix+"prov-1", time.Minute)
	require.NoError(t, err)

	_, createErr := uc.CreateAvailability(context.Background(), validCreateRequest())
	require.Error(t, createErr)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(createErr))
}

func TestCreateAvailability_RecurringWithinHorizon(t *testing.T) {
	uc, _, slotRepo, _ := newTestUsecase()

	req := validCreateRequest()
	req.IsRecurring = true
	req.RecurrencePattern = "daily"
	req.RecurrenceEndDate = time.Now().AddDate(0, 0, 9).Format(constvars.DateLayoutYYYYMMDD)

	out, err := uc.CreateAvailability(context.Background(), req)
	require.NoError(t, err)
	// three dates, two slots each
	assert.Equal(t, 6, out.SlotsCreated)
	assert.Len(t, slotRepo.slots, 6)
}

func TestGetProviderAvailability_FiltersByProvider(t *testing.T) {
	uc, _, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	details, err := uc.GetProviderAvailability(ctx, &requests.GetProviderAvailability{ProviderID: "prov-1"})
	require.NoError(t, err)
	assert.Len(t, details, 1)

	none, err := uc.GetProviderAvailability(ctx, &requests.GetProviderAvailability{ProviderID: "prov-9"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetProviderAvailability_RejectsPartialDateRange(t *testing.T) {
	uc, _, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.GetProviderAvailability(ctx, &requests.GetProviderAvailability{
		ProviderID: "prov-1",
		StartDate:  "2026-09-01",
	})
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Contains(t, customErr.Fields, "end_date")

	_, err = uc.GetProviderAvailability(ctx, &requests.GetProviderAvailability{
		ProviderID: "prov-1",
		EndDate:    "2026-09-30",
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &customErr)
	assert.Contains(t, customErr.Fields, "start_date")
}

func TestDeleteAvailability_CascadesUnbookedSlots(t *testing.T) {
	uc, availRepo, slotRepo, _ := newTestUsecase()
	ctx := context.Background()

	out, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	err = uc.DeleteAvailability(ctx, out.Availability.ID)
	require.NoError(t, err)
	assert.Empty(t, slotRepo.slots)
	assert.Empty(t, availRepo.records)
}

func TestDeleteAvailability_RefusedWhileBooked(t *testing.T) {
	uc, _, slotRepo, _ := newTestUsecase()
	ctx := context.Background()

	out, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	booked, err := slotRepo.Book(ctx, slotRepo.slots[0].ID.Hex(), "patient-1", "BK-TEST0001")
	require.NoError(t, err)
	require.NotNil(t, booked)

	err = uc.DeleteAvailability(ctx, out.Availability.ID)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))
	assert.Len(t, slotRepo.slots, 2)
}

// bookDuringDeleteRepo books a slot right after the first booked-count
// query, mimicking a booking that lands between the check and the cascade.
type bookDuringDeleteRepo struct {
	*fakeSlotRepo
	raced bool
}

func (r *bookDuringDeleteRepo) CountBookedByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	n, err := r.fakeSlotRepo.CountBookedByAvailabilityID(ctx, availabilityID)
	if err != nil || n > 0 || r.raced {
		return n, err
	}
	r.raced = true
	booked, bookErr := r.fakeSlotRepo.Book(ctx, r.fakeSlotRepo.slots[0].ID.Hex(), "patient-race", "BK-RACE0001")
	if bookErr != nil || booked == nil {
		return 0, bookErr
	}
	return 0, nil
}

func TestDeleteAvailability_BookingRaceKeepsBookedSlot(t *testing.T) {
	availRepo := newFakeAvailabilityRepo()
	inner := &fakeSlotRepo{}
	slotRepo := &bookDuringDeleteRepo{fakeSlotRepo: inner}
	uc := NewAvailabilityUsecase(availRepo, slotRepo, newFakeLocker(), testConfig(), zap.NewNop())
	ctx := context.Background()

	out, err := uc.CreateAvailability(ctx, validCreateRequest())
	require.NoError(t, err)

	err = uc.DeleteAvailability(ctx, out.Availability.ID)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))

	// the record survives and so does the mid-flight booking
	assert.Len(t, availRepo.records, 1)
	require.Len(t, inner.slots, 1)
	assert.Equal(t, models.SlotStatusBooked, inner.slots[0].Status)
	assert.Equal(t, "patient-race", inner.slots[0].PatientID)
}

func TestDeleteAvailability_NotFound(t *testing.T) {
	uc, _, _, _ := newTestUsecase()

	err := uc.DeleteAvailability(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
}
