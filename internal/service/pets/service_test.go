package pets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

type memRepo struct {
	byID map[uuid.UUID]domain.Pet
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[uuid.UUID]domain.Pet{}}
}

func (m *memRepo) Create(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Pet{}, err
	}
	pet.ID = id
	m.byID[id] = pet
	return pet, nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Pet, error) {
	pet, ok := m.byID[id]
	if !ok {
		return domain.Pet{}, store.ErrNotFound
	}
	return pet, nil
}

func (m *memRepo) ListForUser(ctx context.Context, userID string) ([]domain.Pet, error) {
	var out []domain.Pet
	for _, pet := range m.byID {
		if pet.UserID == userID {
			out = append(out, pet)
		}
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, id uuid.UUID, upd store.PetUpdate) (domain.Pet, error) {
	pet, ok := m.byID[id]
	if !ok {
		return domain.Pet{}, store.ErrNotFound
	}
	if upd.Name != nil {
		pet.Name = *upd.Name
	}
	if upd.Species != nil {
		pet.Species = *upd.Species
	}
	if upd.Breed != nil {
		pet.Breed = *upd.Breed
	}
	if upd.Age != nil {
		pet.Age = *upd.Age
	}
	if upd.Weight != nil {
		pet.Weight = *upd.Weight
	}
	if upd.Color != nil {
		pet.Color = *upd.Color
	}
	if upd.Gender != nil {
		pet.Gender = *upd.Gender
	}
	if upd.MicrochipNumber != nil {
		pet.MicrochipNumber = *upd.MicrochipNumber
	}
	if upd.Notes != nil {
		pet.Notes = *upd.Notes
	}
	m.byID[id] = pet
	return pet, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

func validCreate(userID string) CreateInput {
	return CreateInput{
		UserID:  userID,
		Name:    "Boncuk",
		Species: domain.PetCat,
		Breed:   "Tekir",
		Age:     3,
		Weight:  4.2,
		Gender:  domain.PetFemale,
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing user", func(in *CreateInput) { in.UserID = "" }},
		{"blank name", func(in *CreateInput) { in.Name = "   " }},
		{"unknown species", func(in *CreateInput) { in.Species = "dinosaur" }},
		{"unknown gender", func(in *CreateInput) { in.Gender = "other" }},
		{"negative age", func(in *CreateInput) { in.Age = -1 }},
		{"negative weight", func(in *CreateInput) { in.Weight = -0.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate("u1")
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateTrimsFields(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	in := validCreate("u1")
	in.Name = "  Boncuk  "
	in.Breed = " Tekir "
	pet, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pet.Name != "Boncuk" || pet.Breed != "Tekir" {
		t.Fatalf("fields not trimmed: %+v", pet)
	}
	if pet.ID == uuid.Nil {
		t.Fatal("id not assigned")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil)

	pet, err := svc.Create(context.Background(), validCreate("u1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), "u1", pet.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if _, err := svc.Get(context.Background(), "stranger", pet.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger Get err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(context.Background(), "u1", uuid.Max); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("absent Get err = %v, want ErrNotFound", err)
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	pet, err := svc.Create(context.Background(), validCreate("u1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Pamuk"
	if _, err := svc.Update(context.Background(), "stranger", pet.ID, store.PetUpdate{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger Update err = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(context.Background(), "u1", pet.ID, store.PetUpdate{Name: &name})
	if err != nil {
		t.Fatalf("owner Update: %v", err)
	}
	if updated.Name != "Pamuk" {
		t.Fatalf("name = %q", updated.Name)
	}

	bad := domain.PetSpecies("dragon")
	if _, err := svc.Update(context.Background(), "u1", pet.ID, store.PetUpdate{Species: &bad}); err == nil {
		t.Fatal("invalid species accepted")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil)

	pet, err := svc.Create(context.Background(), validCreate("u1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), "stranger", pet.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger Delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), "u1", pet.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1", pet.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestListMine(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	if _, err := svc.Create(context.Background(), validCreate("u1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), validCreate("u1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), validCreate("u2")); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListMine(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len = %d, want 2", len(mine))
	}
}
