package usersvc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/repo/account"
)

// AccountConfig contains configuration parameters for the account service.
type AccountConfig struct {
	// MinPasswordLength is the shortest accepted password in bytes
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH" default:"5"`

	// BcryptCost is the bcrypt work factor
	BcryptCost int `env:"BCRYPT_COST" default:"10"`
}

// AccountService manages account records: registration, credential checks
// and self-service profile changes.
type AccountService struct {
	Config      AccountConfig
	AccountRepo account.Repository
	Log         logging.Logger

	dummyHashOnce sync.Once
	dummyHash     []byte
	dummyHashErr  error
}

// ErrInvalidBcryptCost is returned for a work factor bcrypt cannot use.
var ErrInvalidBcryptCost = errors.New("invalid bcrypt cost")

// NewAccountService creates an AccountService on the given repository.
// A cost above bcrypt.MaxCost yields ErrInvalidBcryptCost.
func NewAccountService(repo account.Repository, cfg AccountConfig) (*AccountService, error) {
	if cfg.BcryptCost < 0 || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidBcryptCost, cfg.BcryptCost, bcrypt.MaxCost)
	}

	svc := &AccountService{
		Config:      cfg,
		AccountRepo: repo,
		Log:         logging.GetLogger("svc.usersvc.account_service"),
	}

	if _, err := svc.getDummyHash(); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *AccountService) hashPassword(password string) ([]byte, error) {
	cost := s.Config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return hash, nil
}

// CreateAccount registers a plain account. The email is normalized before
// validation and storage; name may be empty.
// Returns a *domain.ValidationError for an empty or malformed email, a
// password outside the accepted length, or an email that is already taken.
func (s *AccountService) CreateAccount(ctx context.Context, email, password, name string) (*domain.Account, error) {
	return s.createAccount(ctx, &domain.Account{
		Email:    domain.NormalizeEmail(email),
		Name:     name,
		IsActive: true,
	}, password)
}

// CreateSuperuser registers an account with staff and superuser flags set.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string) (*domain.Account, error) {
	return s.createAccount(ctx, &domain.Account{
		Email:       domain.NormalizeEmail(email),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}, password)
}

func (s *AccountService) createAccount(ctx context.Context, acc *domain.Account, password string) (_ *domain.Account, err error) {
	log := s.Log.With(logging.Group("account", "email", acc.Email, "superuser", acc.IsSuperuser))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "create account failed", "error", err)
		} else {
			log.InfoContext(ctx, "account created", "id", acc.ID)
		}
	}()

	verr := &domain.ValidationError{}

	var fieldErr *domain.ValidationError

	if err := ValidateEmail(acc.Email); err != nil {
		if !errors.As(err, &fieldErr) {
			return nil, fmt.Errorf("validate email: %w", err)
		}

		verr.Fields = mergeFields(verr.Fields, fieldErr.Fields)
	}

	if err := ValidatePassword(password, s.Config.MinPasswordLength); err != nil {
		if !errors.As(err, &fieldErr) {
			return nil, fmt.Errorf("validate password: %w", err)
		}

		verr.Fields = mergeFields(verr.Fields, fieldErr.Fields)
	}

	if !verr.Empty() {
		return nil, verr
	}

	acc.PasswordHash, err = s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	if err := s.AccountRepo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			return nil, errors.Join(
				domain.NewValidationError("email", "An account with this email already exists."),
				err,
			)
		}

		return nil, fmt.Errorf("create account: %w", err)
	}

	return acc, nil
}

func mergeFields(dst, src map[string][]string) map[string][]string {
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}

	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}

	return dst
}

// VerifyCredentials returns the active account matching email and password.
// Unknown email, wrong password and inactive account all yield
// domain.ErrInvalidCredentials, and all paths run one bcrypt comparison.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (_ *domain.Account, err error) {
	email = domain.NormalizeEmail(email)
	log := s.Log.With(logging.Group("account", "email", email))

	defer func() {
		if err != nil {
			log.DebugContext(ctx, "verify credentials failed", "error", err)
		}
	}()

	acc, ok, err := s.AccountRepo.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !ok {
		dummy, err := s.getDummyHash()
		if err != nil {
			return nil, err
		}

		_ = bcrypt.CompareHashAndPassword(dummy, []byte(password))

		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !acc.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	return acc, nil
}

func (s *AccountService) getDummyHash() ([]byte, error) {
	s.dummyHashOnce.Do(func() {
		s.dummyHash, s.dummyHashErr = s.hashPassword("dummy password for timing")
		if s.dummyHashErr != nil {
			s.dummyHashErr = fmt.Errorf("dummy hash: %w", s.dummyHashErr)
		}
	})

	return s.dummyHash, s.dummyHashErr
}

// GetAccount retrieves an account by its identifier.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	acc, ok, err := s.AccountRepo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	} else if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return acc, nil
}

// GetAccountByEmail retrieves an account by any case variant of its email.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	acc, ok, err := s.AccountRepo.GetAccountByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	} else if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return acc, nil
}

// UpdateProfile applies the supplied fields of upd to acc and persists it.
// A new password is validated and re-hashed. acc is updated in place and returned.
func (s *AccountService) UpdateProfile(
	ctx context.Context,
	acc *domain.Account,
	upd domain.ProfileUpdate,
) (_ *domain.Account, err error) {
	log := s.Log.With(logging.Group("account", "id", acc.ID))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "update profile failed", "error", err)
		} else {
			log.DebugContext(ctx, "profile updated")
		}
	}()

	updated := *acc

	if upd.Name != nil {
		updated.Name = *upd.Name
	}

	if upd.Password != nil {
		if err := ValidatePassword(*upd.Password, s.Config.MinPasswordLength); err != nil {
			return nil, err
		}

		updated.PasswordHash, err = s.hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
	}

	if err := s.AccountRepo.UpdateAccount(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	*acc = updated

	return acc, nil
}
