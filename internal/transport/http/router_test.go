package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/identity"
	"vetpoint/backend/internal/service/appointments"
	"vetpoint/backend/internal/service/auth"
	"vetpoint/backend/internal/service/directory"
	"vetpoint/backend/internal/service/pets"
	"vetpoint/backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	signUpFn   func(ctx context.Context, in auth.SignUpInput) (auth.Session, error)
	signInFn   func(ctx context.Context, email, password string) (auth.Session, error)
	providerFn func(ctx context.Context, provider identity.Provider, idToken string) (auth.Session, error)
	profileFn  func(ctx context.Context, userID string) (domain.User, error)
}

func (f *fakeAuthService) SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
	if f.signUpFn == nil {
		panic("unexpected SignUp")
	}
	return f.signUpFn(ctx, in)
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if f.signInFn == nil {
		panic("unexpected SignIn")
	}
	return f.signInFn(ctx, email, password)
}

func (f *fakeAuthService) SignInWithProvider(ctx context.Context, provider identity.Provider, idToken string) (auth.Session, error) {
	if f.providerFn == nil {
		panic("unexpected SignInWithProvider")
	}
	return f.providerFn(ctx, provider, idToken)
}

func (f *fakeAuthService) SignOut(ctx context.Context, userID string) {}

func (f *fakeAuthService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	if f.profileFn == nil {
		panic("unexpected GetProfile")
	}
	return f.profileFn(ctx, userID)
}

func (f *fakeAuthService) UpdateProfile(ctx context.Context, userID string, upd auth.ProfileUpdate) (domain.User, error) {
	panic("unexpected UpdateProfile")
}

type fakePetsService struct {
	createFn func(ctx context.Context, in pets.CreateInput) (domain.Pet, error)
	listFn   func(ctx context.Context, userID string) ([]domain.Pet, error)
	getFn    func(ctx context.Context, userID string, id uuid.UUID) (domain.Pet, error)
}

func (f *fakePetsService) Create(ctx context.Context, in pets.CreateInput) (domain.Pet, error) {
	if f.createFn == nil {
		panic("unexpected Create")
	}
	return f.createFn(ctx, in)
}

func (f *fakePetsService) Get(ctx context.Context, userID string, id uuid.UUID) (domain.Pet, error) {
	if f.getFn == nil {
		panic("unexpected Get")
	}
	return f.getFn(ctx, userID, id)
}

func (f *fakePetsService) ListMine(ctx context.Context, userID string) ([]domain.Pet, error) {
	if f.listFn == nil {
		panic("unexpected ListMine")
	}
	return f.listFn(ctx, userID)
}

func (f *fakePetsService) Update(ctx context.Context, userID string, id uuid.UUID, upd store.PetUpdate) (domain.Pet, error) {
	panic("unexpected Update")
}

func (f *fakePetsService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	panic("unexpected Delete")
}

type fakeDirectoryService struct {
	listClinicsFn func(ctx context.Context) ([]domain.Clinic, error)
}

func (f *fakeDirectoryService) ListClinics(ctx context.Context) ([]domain.Clinic, error) {
	if f.listClinicsFn == nil {
		panic("unexpected ListClinics")
	}
	return f.listClinicsFn(ctx)
}

func (f *fakeDirectoryService) GetClinic(ctx context.Context, id uuid.UUID) (domain.Clinic, error) {
	panic("unexpected GetClinic")
}

func (f *fakeDirectoryService) CreateClinic(ctx context.Context, in directory.CreateClinicInput) (domain.Clinic, error) {
	panic("unexpected CreateClinic")
}

func (f *fakeDirectoryService) ListVeterinarians(ctx context.Context, clinicID uuid.UUID) ([]domain.Veterinarian, error) {
	panic("unexpected ListVeterinarians")
}

func (f *fakeDirectoryService) GetVeterinarian(ctx context.Context, id uuid.UUID) (domain.Veterinarian, error) {
	panic("unexpected GetVeterinarian")
}

func (f *fakeDirectoryService) BecomeVeterinarian(ctx context.Context, in directory.BecomeVeterinarianInput) (domain.Veterinarian, error) {
	panic("unexpected BecomeVeterinarian")
}

func (f *fakeDirectoryService) UpdateVeterinarian(ctx context.Context, userID string, id uuid.UUID, in directory.UpdateVeterinarianInput) (domain.Veterinarian, error) {
	panic("unexpected UpdateVeterinarian")
}

type fakeAppointmentsService struct {
	createFn       func(ctx context.Context, in appointments.CreateInput) (appointments.CreateResult, error)
	availabilityFn func(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (bool, error)
	transitionFn   func(ctx context.Context, actor appointments.Actor, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error)
	getFn          func(ctx context.Context, actor appointments.Actor, id uuid.UUID) (domain.Appointment, error)
}

func (f *fakeAppointmentsService) Create(ctx context.Context, in appointments.CreateInput) (appointments.CreateResult, error) {
	if f.createFn == nil {
		panic("unexpected Create")
	}
	return f.createFn(ctx, in)
}

func (f *fakeAppointmentsService) Availability(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (bool, error) {
	if f.availabilityFn == nil {
		panic("unexpected Availability")
	}
	return f.availabilityFn(ctx, vetID, date, timeOfDay)
}

func (f *fakeAppointmentsService) Get(ctx context.Context, actor appointments.Actor, id uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("unexpected Get")
	}
	return f.getFn(ctx, actor, id)
}

func (f *fakeAppointmentsService) Transition(ctx context.Context, actor appointments.Actor, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error) {
	if f.transitionFn == nil {
		panic("unexpected Transition")
	}
	return f.transitionFn(ctx, actor, id, to)
}

func (f *fakeAppointmentsService) Cancel(ctx context.Context, actor appointments.Actor, id uuid.UUID) (domain.Appointment, error) {
	panic("unexpected Cancel")
}

func (f *fakeAppointmentsService) Update(ctx context.Context, actor appointments.Actor, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error) {
	panic("unexpected Update")
}

func (f *fakeAppointmentsService) Delete(ctx context.Context, actor appointments.Actor, id uuid.UUID) error {
	panic("unexpected Delete")
}

func (f *fakeAppointmentsService) ListMine(ctx context.Context, actor appointments.Actor) ([]domain.Appointment, error) {
	panic("unexpected ListMine")
}

func (f *fakeAppointmentsService) ListIncoming(ctx context.Context, actor appointments.Actor) ([]domain.Appointment, error) {
	panic("unexpected ListIncoming")
}

func (f *fakeAppointmentsService) ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Appointment, error) {
	panic("unexpected ListForClinic")
}

type memDevices struct {
	byUser map[string]domain.PushDevice
}

func (m *memDevices) Save(ctx context.Context, device domain.PushDevice) error {
	m.byUser[device.UserID] = device
	return nil
}

func (m *memDevices) GetByUserID(ctx context.Context, userID string) (domain.PushDevice, error) {
	device, ok := m.byUser[userID]
	if !ok {
		return domain.PushDevice{}, store.ErrNotFound
	}
	return device, nil
}

type routerFixture struct {
	tokens       *identity.Tokens
	auth         *fakeAuthService
	pets         *fakePetsService
	dir          *fakeDirectoryService
	appointments *fakeAppointmentsService
	devices      *memDevices
	engine       *gin.Engine
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		tokens:       identity.NewTokens("test-secret", time.Hour),
		auth:         &fakeAuthService{},
		pets:         &fakePetsService{},
		dir:          &fakeDirectoryService{},
		appointments: &fakeAppointmentsService{},
		devices:      &memDevices{byUser: map[string]domain.PushDevice{}},
	}
	f.engine = NewRouter(RouterConfig{
		Tokens:       f.tokens,
		Auth:         NewAuthHandler(f.auth, nil),
		Pets:         NewPetsHandler(f.pets, nil),
		Directory:    NewDirectoryHandler(f.dir, nil),
		Appointments: NewAppointmentsHandler(f.appointments, nil),
		Devices:      NewDevicesHandler(f.devices, nil),
	})
	return f
}

func (f *routerFixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) mintToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.tokens.Mint(userID, domain.RolePetOwner)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodGet, "/api/v1/pets", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = f.request(t, http.MethodGet, "/api/v1/pets", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestPublicBrowseNeedsNoToken(t *testing.T) {
	f := newRouterFixture(t)
	f.dir.listClinicsFn = func(ctx context.Context) ([]domain.Clinic, error) {
		return []domain.Clinic{{Name: "Pati Klinik"}}, nil
	}

	rec := f.request(t, http.MethodGet, "/api/v1/clinics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var clinics []domain.Clinic
	if err := json.Unmarshal(rec.Body.Bytes(), &clinics); err != nil {
		t.Fatal(err)
	}
	if len(clinics) != 1 || clinics[0].Name != "Pati Klinik" {
		t.Fatalf("clinics = %+v", clinics)
	}
}

func TestRegisterReturnsSession(t *testing.T) {
	f := newRouterFixture(t)
	f.auth.signUpFn = func(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
		if in.Email != "a@b.com" {
			t.Fatalf("email = %q", in.Email)
		}
		return auth.Session{Token: "jwt", User: domain.User{ID: "u1", Email: in.Email}}, nil
	}

	rec := f.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "a@b.com", "password": "sekret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token != "jwt" || resp.User.ID != "u1" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "a@b.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	f := newRouterFixture(t)
	f.auth.signInFn = func(ctx context.Context, email, password string) (auth.Session, error) {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	rec := f.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "a@b.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateAppointmentStatuses(t *testing.T) {
	f := newRouterFixture(t)
	token := f.mintToken(t, "u1")

	body := gin.H{
		"petId":           uuid.New().String(),
		"veterinarianId":  uuid.New().String(),
		"clinicId":        uuid.New().String(),
		"appointmentDate": "2026-09-01",
		"appointmentTime": "10:00",
		"type":            "checkup",
		"reason":          "annual checkup",
	}

	f.appointments.createFn = func(ctx context.Context, in appointments.CreateInput) (appointments.CreateResult, error) {
		if in.UserID != "u1" {
			t.Fatalf("user id = %q, must come from the token", in.UserID)
		}
		return appointments.CreateResult{
			Appointment:  domain.Appointment{ID: uuid.New(), UserID: in.UserID, Status: domain.AppointmentPending},
			SlotVerified: true,
		}, nil
	}
	rec := f.request(t, http.MethodPost, "/api/v1/appointments", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp createAppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.SlotVerified {
		t.Fatal("slotVerified missing")
	}

	f.appointments.createFn = func(ctx context.Context, in appointments.CreateInput) (appointments.CreateResult, error) {
		return appointments.CreateResult{}, appointments.ErrSlotTaken
	}
	if rec := f.request(t, http.MethodPost, "/api/v1/appointments", token, body); rec.Code != http.StatusConflict {
		t.Fatalf("slot taken status = %d, want 409", rec.Code)
	}

	bad := gin.H{}
	for k, v := range body {
		bad[k] = v
	}
	bad["petId"] = "not-a-uuid"
	if rec := f.request(t, http.MethodPost, "/api/v1/appointments", token, bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid status = %d, want 400", rec.Code)
	}
}

func TestAvailabilityQuery(t *testing.T) {
	f := newRouterFixture(t)
	vetID := uuid.New()
	f.appointments.availabilityFn = func(ctx context.Context, id uuid.UUID, date, timeOfDay string) (bool, error) {
		if id != vetID || date != "2026-09-01" || timeOfDay != "10:00" {
			t.Fatalf("args = %v %q %q", id, date, timeOfDay)
		}
		return true, nil
	}

	rec := f.request(t, http.MethodGet, "/api/v1/appointments/availability?veterinarianId="+vetID.String()+"&date=2026-09-01&time=10:00", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp["available"] {
		t.Fatal("available = false, want true")
	}
}

func TestTransitionErrorMapping(t *testing.T) {
	f := newRouterFixture(t)
	token := f.mintToken(t, "u1")
	id := uuid.New()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid transition", appointments.ErrInvalidTransition, http.StatusConflict},
		{"forbidden", appointments.ErrForbidden, http.StatusForbidden},
		{"not found", store.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.appointments.transitionFn = func(ctx context.Context, actor appointments.Actor, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error) {
				return domain.Appointment{}, tc.err
			}
			rec := f.request(t, http.MethodPatch, "/api/v1/appointments/"+id.String()+"/status", token, gin.H{"status": "confirmed"})
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestListPetsEmptyIsArray(t *testing.T) {
	f := newRouterFixture(t)
	token := f.mintToken(t, "u1")
	f.pets.listFn = func(ctx context.Context, userID string) ([]domain.Pet, error) {
		return nil, nil
	}

	rec := f.request(t, http.MethodGet, "/api/v1/pets", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestRegisterDevice(t *testing.T) {
	f := newRouterFixture(t)
	token := f.mintToken(t, "u1")

	rec := f.request(t, http.MethodPut, "/api/v1/devices", token, gin.H{"playerId": "player-9"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if f.devices.byUser["u1"].PlayerID != "player-9" {
		t.Fatalf("device not saved: %+v", f.devices.byUser)
	}

	rec = f.request(t, http.MethodPut, "/api/v1/devices", token, gin.H{"playerId": "player-10"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("upsert status = %d", rec.Code)
	}
	if f.devices.byUser["u1"].PlayerID != "player-10" {
		t.Fatal("device not upserted")
	}
}
