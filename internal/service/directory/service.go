// Package directory serves the browse side of the app: clinics, the
// veterinarians attached to them, and the role-upgrade flow that turns a
// user account into a veterinarian listing.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

var ErrForbidden = errors.New("forbidden")

type Service struct {
	clinics store.ClinicRepository
	vets    store.VeterinarianRepository
	users   store.UserRepository
	log     *slog.Logger
}

func NewService(clinics store.ClinicRepository, vets store.VeterinarianRepository, users store.UserRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		clinics: clinics,
		vets:    vets,
		users:   users,
		log:     log.With(slog.String("component", "service.directory")),
	}
}

func (s *Service) ListClinics(ctx context.Context) ([]domain.Clinic, error) {
	return s.clinics.List(ctx)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (domain.Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

type CreateClinicInput struct {
	Name             string
	Address          domain.Address
	Phone            string
	Email            string
	Website          string
	Description      string
	Services         []string
	Facilities       []string
	EmergencyService bool
	IsOpen24Hours    bool
	PhotoURL         string
	Location         domain.GeoPoint
}

func (s *Service) CreateClinic(ctx context.Context, in CreateClinicInput) (domain.Clinic, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Clinic{}, validationError("name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return domain.Clinic{}, validationError("phone is required")
	}

	return s.clinics.Create(ctx, domain.Clinic{
		Name:             name,
		Address:          in.Address,
		Phone:            strings.TrimSpace(in.Phone),
		Email:            strings.TrimSpace(in.Email),
		Website:          strings.TrimSpace(in.Website),
		Description:      in.Description,
		Services:         in.Services,
		Facilities:       in.Facilities,
		EmergencyService: in.EmergencyService,
		IsOpen24Hours:    in.IsOpen24Hours,
		PhotoURL:         in.PhotoURL,
		Location:         in.Location,
	})
}

func (s *Service) ListVeterinarians(ctx context.Context, clinicID uuid.UUID) ([]domain.Veterinarian, error) {
	if clinicID != uuid.Nil {
		return s.vets.ListForClinic(ctx, clinicID)
	}
	return s.vets.List(ctx)
}

func (s *Service) GetVeterinarian(ctx context.Context, id uuid.UUID) (domain.Veterinarian, error) {
	return s.vets.GetByID(ctx, id)
}

type BecomeVeterinarianInput struct {
	UserID         string
	Name           string
	Email          string
	Phone          string
	Specialization []string
	Experience     int
	Education      string
	LicenseNumber  string
	ClinicID       uuid.UUID
}

// BecomeVeterinarian is the role-upgrade flow: it creates the
// veterinarian listing with the default weekly hours and stamps the user
// row with the role and clinic.
func (s *Service) BecomeVeterinarian(ctx context.Context, in BecomeVeterinarianInput) (domain.Veterinarian, error) {
	if in.UserID == "" {
		return domain.Veterinarian{}, validationError("user_id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Veterinarian{}, validationError("name is required")
	}
	if strings.TrimSpace(in.LicenseNumber) == "" {
		return domain.Veterinarian{}, validationError("license_number is required")
	}
	if in.ClinicID == uuid.Nil {
		return domain.Veterinarian{}, validationError("clinic_id is required")
	}

	if _, err := s.vets.GetByUserID(ctx, in.UserID); err == nil {
		return domain.Veterinarian{}, validationError("user is already a veterinarian")
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Veterinarian{}, err
	}

	if _, err := s.clinics.GetByID(ctx, in.ClinicID); err != nil {
		return domain.Veterinarian{}, err
	}

	vet, err := s.vets.Create(ctx, domain.Veterinarian{
		UserID:         in.UserID,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Specialization: in.Specialization,
		Experience:     in.Experience,
		Education:      in.Education,
		LicenseNumber:  strings.TrimSpace(in.LicenseNumber),
		ClinicID:       in.ClinicID,
		IsAvailable:    true,
		WorkingHours:   domain.DefaultWorkingHours(),
	})
	if err != nil {
		return domain.Veterinarian{}, err
	}

	role := domain.RoleVeterinarian
	clinicID := in.ClinicID
	if _, err := s.users.Update(ctx, in.UserID, store.UserUpdate{Role: &role, ClinicID: &clinicID}); err != nil {
		// The listing exists; the role stamp is best effort and will
		// converge on the next profile save.
		s.log.Warn("role stamp failed after veterinarian create",
			slog.String("user_id", in.UserID), slog.Any("err", err))
	}

	return vet, nil
}

type UpdateVeterinarianInput struct {
	Name           *string
	Phone          *string
	Specialization *[]string
	Experience     *int
	Education      *string
	IsAvailable    *bool
	WorkingHours   *domain.WorkingHours
}

// UpdateVeterinarian lets a veterinarian edit their own listing.
func (s *Service) UpdateVeterinarian(ctx context.Context, userID string, id uuid.UUID, in UpdateVeterinarianInput) (domain.Veterinarian, error) {
	vet, err := s.vets.GetByID(ctx, id)
	if err != nil {
		return domain.Veterinarian{}, err
	}
	if vet.UserID != userID {
		return domain.Veterinarian{}, ErrForbidden
	}

	return s.vets.Update(ctx, id, store.VeterinarianUpdate{
		Name:           in.Name,
		Phone:          in.Phone,
		Specialization: in.Specialization,
		Experience:     in.Experience,
		Education:      in.Education,
		IsAvailable:    in.IsAvailable,
		WorkingHours:   in.WorkingHours,
	})
}
