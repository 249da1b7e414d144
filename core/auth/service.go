package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/session"
)

const (
	registerPath = "/register"
	loginPath    = "/login"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNoSession      = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired, please log in again")
	errNoAccessToken  = errors.New("login response carries no access_token")
)

// Credentials are sent to /register and /login.
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

func (c *Credentials) Validate() error {
	c.Username = core.CleanString(c.Username)
	return core.ValidateStruct(c)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

type Service struct {
	api    core.Requester
	store  session.Store
	logger core.Logger
}

func NewService(api core.Requester, store session.Store, logger core.Logger) *Service {
	return &Service{api: api, store: store, logger: logger}
}

func (svc *Service) Register(ctx context.Context, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if err := svc.api.DoPublic(ctx, http.MethodPost, registerPath, creds, nil); err != nil {
		return errors.Wrap(err, "registering")
	}
	svc.logger.Info("registered", map[string]interface{}{"username": creds.Username})
	return nil
}

// Login exchanges credentials for a bearer token and persists it with the username.
func (svc *Service) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	if err := creds.Validate(); err != nil {
		return session.Session{}, err
	}

	var resp LoginResponse
	if err := svc.api.DoPublic(ctx, http.MethodPost, loginPath, creds, &resp); err != nil {
		return session.Session{}, errors.Wrap(err, "logging in")
	}
	if resp.AccessToken == "" {
		return session.Session{}, &core.TransportError{Op: "decoding login response", Err: errNoAccessToken}
	}
	if resp.Username == "" {
		resp.Username = creds.Username
	}

	if err := svc.store.Set(ctx, resp.AccessToken, resp.Username); err != nil {
		return session.Session{}, errors.Wrap(err, "saving session")
	}
	sess := session.Session{Token: resp.AccessToken, Username: resp.Username}
	svc.logger.Info("logged in", sess)
	return sess, nil
}

func (svc *Service) Logout(ctx context.Context) error {
	return errors.Wrap(svc.store.Clear(ctx), "clearing session")
}

// Current returns the stored session. A JWT whose exp has passed clears the store.
// Tokens that are not JWTs are opaque and never expire client-side.
func (svc *Service) Current(ctx context.Context) (session.Session, error) {
	sess, err := svc.store.Get(ctx)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "reading session")
	}
	if !sess.IsAuthenticated() {
		return session.Session{}, ErrNoSession
	}

	if exp, ok := TokenExpiry(sess.Token); ok && !NowFunc().Before(exp) {
		if err = svc.store.Clear(ctx); err != nil {
			return session.Session{}, errors.Wrap(err, "clearing expired session")
		}
		svc.logger.Info("session expired", sess)
		return session.Session{}, ErrSessionExpired
	}
	return sess, nil
}

// TokenExpiry reads the exp claim without verifying the signature; the client holds no key.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case int64:
		return time.Unix(exp, 0), true
	default:
		return time.Time{}, false
	}
}
