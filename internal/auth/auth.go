// Package auth drives session transitions: login, register, logout. It is
// the only writer of the session store.
package auth

import (
	"context"
	"strings"

	"github.com/shopforge/storefront/internal/apperr"
	"github.com/shopforge/storefront/internal/gateway"
	"github.com/shopforge/storefront/internal/logging"
	"github.com/shopforge/storefront/internal/session"
)

// MinPasswordLength is the registration floor; shorter passwords are
// rejected locally, before any network call.
const MinPasswordLength = 6

// Controller exposes the authentication operations.
type Controller struct {
	gw    *gateway.Client
	store *session.Store
	log   *logging.Logger
}

// New creates an auth controller.
func New(gw *gateway.Client, store *session.Store, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{gw: gw, store: store, log: log}
}

// credentialsResponse is the backend's shape for both login and register.
type credentialsResponse struct {
	Token    string   `json:"token"`
	UserID   string   `json:"userId"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

func (r credentialsResponse) session() session.Session {
	return session.Session{
		UserID:   r.UserID,
		Email:    r.Email,
		FullName: r.FullName,
		Roles:    r.Roles,
		Token:    r.Token,
	}
}

// Login authenticates with the backend and installs the returned session.
func (c *Controller) Login(ctx context.Context, email, password string) (session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Session{}, apperr.Validation("email and password are required")
	}

	var resp credentialsResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.gw.Post(ctx, "/auth/login", body, &resp); err != nil {
		return session.Session{}, err
	}
	if resp.Token == "" {
		return session.Session{}, apperr.Domain(0, "login response carried no token")
	}

	sess := resp.session()
	if err := c.store.Set(sess); err != nil {
		return session.Session{}, err
	}
	c.log.WithContext(ctx).WithField("user_id", sess.UserID).Info("logged in")
	return sess, nil
}

// Register creates an account and installs the returned session. Password
// rules are checked locally first; violations never reach the network.
func (c *Controller) Register(ctx context.Context, fullName, email, password, confirmPassword string) (session.Session, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return session.Session{}, apperr.Validation("full name and email are required")
	}
	if len(password) < MinPasswordLength {
		return session.Session{}, apperr.Validationf("password must be at least %d characters long", MinPasswordLength)
	}
	if password != confirmPassword {
		return session.Session{}, apperr.Validation("passwords do not match")
	}

	var resp credentialsResponse
	body := map[string]string{"fullName": fullName, "email": email, "password": password}
	if err := c.gw.Post(ctx, "/auth/register", body, &resp); err != nil {
		return session.Session{}, err
	}
	if resp.Token == "" {
		return session.Session{}, apperr.Domain(0, "register response carried no token")
	}

	sess := resp.session()
	if err := c.store.Set(sess); err != nil {
		return session.Session{}, err
	}
	c.log.WithContext(ctx).WithField("user_id", sess.UserID).Info("registered")
	return sess, nil
}

// Logout clears the session and persisted credentials. It performs no
// network call; the token simply stops being presented.
func (c *Controller) Logout() {
	c.store.Clear()
	c.log.Info("logged out")
}
