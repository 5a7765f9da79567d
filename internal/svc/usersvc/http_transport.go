package usersvc

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/recipe-api/internal/domain"
	context_ "github.com/mkrupp/recipe-api/internal/infra/context"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	http_ "github.com/mkrupp/recipe-api/internal/infra/transport/http"
	"github.com/mkrupp/recipe-api/internal/infra/validation"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc/authclient"
)

// HTTPTransportConfig contains configuration parameters for the user endpoints.
type HTTPTransportConfig struct {
	// TokenRateLimit throttles POST /user/token per client address
	TokenRateLimit http_.RateLimitConfig `envPrefix:"TOKEN_RATE_LIMIT_"`
}

// HTTPTransport serves account registration, login and the caller's profile.
type HTTPTransport struct {
	accounts   *AccountService
	tokens     *TokenService
	auth       func(http.Handler) http.Handler
	limiter    *http_.RateLimiter
	router     chi.Router
	routerOnce sync.Once
	log        logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

type createAccountRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"max=255"`
}

type issueTokenRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=255"`
	Password *string `json:"password"`
}

// NewHTTPTransport creates the user endpoints. authClient resolves bearer
// tokens for the protected routes.
func NewHTTPTransport(
	accounts *AccountService,
	tokens *TokenService,
	authClient authclient.AuthClient,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	log := logging.GetLogger("svc.usersvc.http_transport")

	return &HTTPTransport{
		accounts: accounts,
		tokens:   tokens,
		auth:     http_.AuthenticatingMiddleware(authClient, log),
		limiter:  http_.NewRateLimiter(cfg.TokenRateLimit),
		log:      log,
	}
}

// Register adds the user routes to r:
// - POST /user/create: register an account
// - POST /user/token: exchange credentials for a token (rate limited)
// - DELETE /user/token: revoke the caller's token
// - GET, PATCH /user/me: read or update the caller's profile.
func (ht *HTTPTransport) Register(r chi.Router) {
	r.Post("/user/create", ht.HandleCreateAccount)

	token := http_.NewRouter()
	token.With(ht.limiter.Middleware).Post("/", ht.HandleIssueToken)
	token.With(ht.auth).Delete("/", ht.HandleRevokeToken)
	r.Mount("/user/token", token)

	// authentication runs before method dispatch
	me := http_.NewRouter()
	me.Use(ht.auth)
	me.Get("/", ht.HandleGetProfile)
	me.Patch("/", ht.HandleUpdateProfile)
	r.Mount("/user/me", me)
}

// ServeHTTP implements http.Handler for serving the transport on its own.
// Servers sharing a router call Register instead.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.routerOnce.Do(func() {
		router := http_.NewRouter()
		ht.Register(router)
		ht.router = router
	})

	ht.router.ServeHTTP(w, r)
}

func (ht *HTTPTransport) logOutcome(ctx context.Context, log logging.Logger, action string, err error) {
	switch {
	case err == nil:
		log.DebugContext(ctx, action+" succeeded")
	case http_.ErrorStatus(err) >= http.StatusInternalServerError:
		log.ErrorContext(ctx, action+" failed", "error", err)
	default:
		log.InfoContext(ctx, action+" rejected", "error", err)
	}
}

func (ht *HTTPTransport) requestLogger(r *http.Request) logging.Logger {
	return ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))
}

// HandleCreateAccount processes registration requests.
// Expects a JSON body with email, password and an optional name.
func (ht *HTTPTransport) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleCreateAccount(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleCreateAccount(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.requestLogger(r)

	defer func(ctx context.Context) { ht.logOutcome(ctx, log, "create account", err) }(r.Context())

	var req createAccountRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := validation.Struct(req); err != nil {
		return err //nolint:wrapcheck
	}

	acc, err := ht.accounts.CreateAccount(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	return http_.WriteJSON(w, http.StatusCreated, domain.NewAccountResponse(acc))
}

// HandleIssueToken processes login requests.
// Expects a JSON body with email and password and answers with the token.
func (ht *HTTPTransport) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleIssueToken(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleIssueToken(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.requestLogger(r)

	defer func(ctx context.Context) { ht.logOutcome(ctx, log, "issue token", err) }(r.Context())

	var req issueTokenRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := validation.Struct(req); err != nil {
		return err //nolint:wrapcheck
	}

	tok, err := ht.tokens.IssueToken(r.Context(), req.Email, req.Password)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.AuthTokenResponse{Token: tok.Key})
}

// HandleRevokeToken deletes the caller's token.
func (ht *HTTPTransport) HandleRevokeToken(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleRevokeToken(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleRevokeToken(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.requestLogger(r)

	defer func(ctx context.Context) { ht.logOutcome(ctx, log, "revoke token", err) }(r.Context())

	acc, ok := context_.AccountFromContext(r.Context())
	if !ok {
		return domain.ErrNotAuthenticated
	}

	if err := ht.tokens.RevokeToken(r.Context(), acc); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// HandleGetProfile returns the caller's email and name.
func (ht *HTTPTransport) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	acc, ok := context_.AccountFromContext(r.Context())
	if !ok {
		http_.WriteError(w, r, domain.ErrNotAuthenticated)

		return
	}

	if err := http_.WriteJSON(w, http.StatusOK, domain.NewAccountResponse(acc)); err != nil {
		ht.log.ErrorContext(r.Context(), "write profile failed", "error", err)
	}
}

// HandleUpdateProfile applies a partial update to the caller's name or password.
func (ht *HTTPTransport) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleUpdateProfile(w, r); err != nil {
		http_.WriteError(w, r, err)
	}
}

func (ht *HTTPTransport) handleUpdateProfile(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.requestLogger(r)

	defer func(ctx context.Context) { ht.logOutcome(ctx, log, "update profile", err) }(r.Context())

	acc, ok := context_.AccountFromContext(r.Context())
	if !ok {
		return domain.ErrNotAuthenticated
	}

	var req updateProfileRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := validation.Struct(req); err != nil {
		return err //nolint:wrapcheck
	}

	acc, err = ht.accounts.UpdateProfile(r.Context(), acc, domain.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.NewAccountResponse(acc))
}
