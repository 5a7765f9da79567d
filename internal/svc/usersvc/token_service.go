package usersvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/repo/token"
	"github.com/mkrupp/recipe-api/internal/util/encoding"
)

const issueTokenAttempts = 3

// TokenConfig contains configuration parameters for the token service.
type TokenConfig struct {
	// KeyBytes is the amount of random data in a token key
	KeyBytes int `env:"KEY_BYTES" default:"20"`
}

// TokenService issues, resolves and revokes opaque auth tokens.
// An account holds at most one token; logging in again returns it.
type TokenService struct {
	Config     TokenConfig
	Accounts   *AccountService
	TokenRepo  token.Repository
	Log        logging.Logger
	keyFactory func(n int) (string, error)
}

// NewTokenService creates a TokenService issuing tokens for the accounts managed by accounts.
func NewTokenService(accounts *AccountService, repo token.Repository, cfg TokenConfig) *TokenService {
	return &TokenService{
		Config:     cfg,
		Accounts:   accounts,
		TokenRepo:  repo,
		Log:        logging.GetLogger("svc.usersvc.token_service"),
		keyFactory: encoding.RandomCrockfordB32LC,
	}
}

// IssueToken verifies the credentials and returns the account's token,
// creating it on first use. Bad credentials yield domain.ErrInvalidCredentials.
func (s *TokenService) IssueToken(ctx context.Context, email, password string) (_ *domain.AuthToken, err error) {
	log := s.Log.With(logging.Group("account", "email", domain.NormalizeEmail(email)))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "issue token failed", "error", err)
		} else {
			log.DebugContext(ctx, "token issued")
		}
	}()

	acc, err := s.Accounts.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	for range issueTokenAttempts {
		tok, ok, err := s.TokenRepo.GetTokenByAccount(ctx, acc.ID)
		if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			return nil, fmt.Errorf("get token: %w", err)
		} else if ok {
			return tok, nil
		}

		key, err := s.keyFactory(s.keyBytes())
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}

		tok = &domain.AuthToken{Key: key, AccountID: acc.ID}

		err = s.TokenRepo.CreateToken(ctx, tok)
		if err == nil {
			return tok, nil
		} else if !errors.Is(err, token.ErrTokenAlreadyExists) {
			return nil, fmt.Errorf("create token: %w", err)
		}

		// a concurrent login created the token first, or the key collided
	}

	return nil, fmt.Errorf("create token: %w", token.ErrTokenAlreadyExists)
}

func (s *TokenService) keyBytes() int {
	if s.Config.KeyBytes <= 0 {
		return 20 //nolint:mnd
	}

	return s.Config.KeyBytes
}

// ResolveCaller returns the active account holding key.
// Unknown keys and inactive accounts yield domain.ErrNotAuthenticated.
func (s *TokenService) ResolveCaller(ctx context.Context, key string) (*domain.Account, error) {
	key = encoding.NormalizeCrockfordB32LC(key)
	if key == "" || !encoding.IsCrockfordB32LC(key) {
		return nil, errors.Join(domain.ErrNotAuthenticated, domain.ErrInvalidAuthToken)
	}

	tok, ok, err := s.TokenRepo.GetTokenByKey(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return nil, fmt.Errorf("get token: %w", err)
	} else if !ok {
		return nil, errors.Join(domain.ErrNotAuthenticated, domain.ErrInvalidAuthToken)
	}

	acc, err := s.Accounts.GetAccount(ctx, tok.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, errors.Join(domain.ErrNotAuthenticated, err)
		}

		return nil, err
	}

	if !acc.IsActive {
		return nil, errors.Join(domain.ErrNotAuthenticated, domain.ErrInvalidAuthToken)
	}

	return acc, nil
}

// RevokeToken deletes the token held by acc. The next login issues a new one.
func (s *TokenService) RevokeToken(ctx context.Context, acc *domain.Account) error {
	if err := s.TokenRepo.DeleteTokenByAccount(ctx, acc.ID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	s.Log.DebugContext(ctx, "token revoked", logging.Group("account", "id", acc.ID))

	return nil
}
