package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/identity"
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

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

const minPasswordLen = 6

type Service struct {
	users    store.UserRepository
	tokens   *identity.Tokens
	verifier identity.Verifier
	log      *slog.Logger
}

func NewService(users store.UserRepository, tokens *identity.Tokens, verifier identity.Verifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		log:      log.With(slog.String("component", "service.auth")),
	}
}

// Session is what sign-in hands back. Degraded means the identity is
// valid but the user row could not be persisted; the caller proceeds on
// the in-memory profile.
type Session struct {
	Token    string
	User     domain.User
	Degraded bool
}

type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, validationError("email is malformed")
	}
	if len(in.Password) < minPasswordLen {
		return Session{}, validationError("password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = domain.RolePetOwner
	}
	if !role.Valid() {
		return Session{}, validationError("unknown role")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return Session{}, err
	}

	name := strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))
	if name == "" {
		name = email
	}

	user, err := s.users.Create(ctx, domain.User{
		ID:           uid.String(),
		Email:        email,
		Name:         name,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}

	return s.sessionFor(user, false)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == "" {
		// Federated account; there is no password to check.
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.sessionFor(user, false)
}

// SignInWithProvider exchanges a Google/Apple ID token for a session,
// creating the user row on first sign-in. A failed persist does not
// block the session; it comes back marked degraded.
func (s *Service) SignInWithProvider(ctx context.Context, provider identity.Provider, idToken string) (Session, error) {
	id, err := s.verifier.Verify(ctx, provider, idToken)
	if err != nil {
		return Session{}, err
	}

	user, degraded := s.ensureUser(ctx, id)
	return s.sessionFor(user, degraded)
}

// ensureUser mirrors the identity into the users collection. Absent row
// -> create with the pet-owner default role; persist failure -> fall
// back to the in-memory default without retrying.
func (s *Service) ensureUser(ctx context.Context, id identity.Identity) (domain.User, bool) {
	if user, err := s.users.GetByID(ctx, id.UID); err == nil {
		return user, false
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log.Warn("user lookup failed on sign-in", slog.String("user_id", id.UID), slog.Any("err", err))
	}

	fallback := domain.User{
		ID:       id.UID,
		Email:    id.Email,
		Name:     id.Name,
		PhotoURL: id.PhotoURL,
		Role:     domain.RolePetOwner,
	}

	user, err := s.users.Create(ctx, fallback)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race with another device; the row exists now.
			if existing, getErr := s.users.GetByID(ctx, id.UID); getErr == nil {
				return existing, false
			}
		}
		s.log.Warn("user persist failed on sign-in; continuing degraded",
			slog.String("user_id", id.UID), slog.Any("err", err))
		return fallback, true
	}
	return user, false
}

func (s *Service) sessionFor(user domain.User, degraded bool) (Session, error) {
	token, err := s.tokens.Mint(user.ID, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user, Degraded: degraded}, nil
}

// SignOut never fails the caller; the client always proceeds to the
// signed-out view. Tokens are stateless, so there is nothing to revoke.
func (s *Service) SignOut(ctx context.Context, userID string) {
	s.log.Info("signed out", slog.String("user_id", userID))
}

type ProfileUpdate struct {
	Name      *string
	FirstName *string
	LastName  *string
	PhotoURL  *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (domain.User, error) {
	if userID == "" {
		return domain.User{}, validationError("user_id is required")
	}
	return s.users.Update(ctx, userID, store.UserUpdate{
		Name:      upd.Name,
		FirstName: upd.FirstName,
		LastName:  upd.LastName,
		PhotoURL:  upd.PhotoURL,
	})
}

func (s *Service) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
