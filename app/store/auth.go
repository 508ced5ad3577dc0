package store

import (
	"context"
	"errors"
	"sync"

	"shopstream/app/models"
	"shopstream/internal/gateway"
	"shopstream/pkg/blob"
	"shopstream/pkg/logger"
	"shopstream/pkg/notify"
	"shopstream/pkg/validate"
)

const (
	identityBlobKey     = "identity"
	identityBlobVersion = 1
)

// AuthState is the session lifecycle state.
type AuthState string

const (
	StateAnonymous      AuthState = "anonymous"
	StateAuthenticating AuthState = "authenticating"
	StateAuthenticated  AuthState = "authenticated"
)

// identityBlob is the persisted session. Credentials never persist,
// only the identity and its tokens.
type identityBlob struct {
	Identity     models.Identity `json:"identity"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// AuthStore owns the current authenticated identity and wraps the
// gateway's sign-in, sign-up, verification and session-restore flows.
// Only one identity is active at a time.
type AuthStore struct {
	gw     gateway.AuthGateway
	blobs  blob.Store
	cart   *CartStore
	notify *notify.Notifier

	// onToken is invoked with the access token after every session
	// change, and with "" on logout. The REST client hangs its bearer
	// here.
	onToken func(token string)

	mu      sync.RWMutex
	state   AuthState
	session gateway.Session
}

// NewAuth returns an anonymous auth store. The cart is purged on
// logout, so the auth store holds a reference to it.
func NewAuth(gw gateway.AuthGateway, blobs blob.Store, cart *CartStore, n *notify.Notifier) *AuthStore {
	return &AuthStore{
		gw:      gw,
		blobs:   blobs,
		cart:    cart,
		notify:  n,
		onToken: func(string) {},
		state:   StateAnonymous,
	}
}

// OnToken registers the access-token hook.
func (s *AuthStore) OnToken(fn func(token string)) *AuthStore {
	s.onToken = fn
	return s
}

// State returns the current lifecycle state.
func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the authenticated identity, or false when anonymous.
func (s *AuthStore) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Identity, s.state == StateAuthenticated
}

func (s *AuthStore) setState(st AuthState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// adopt installs a session: state, persistence, token hook.
func (s *AuthStore) adopt(session gateway.Session) {
	s.mu.Lock()
	s.session = session
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.blobs.Put(identityBlobKey, identityBlobVersion, identityBlob{
		Identity:     session.Identity,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}); err != nil {
		logger.Warn("identity persist failed", "error", err)
	}

	s.onToken(session.AccessToken)
}

// Login signs in with email and password. Each failure reason gets its
// own message; state returns to anonymous on any failure.
func (s *AuthStore) Login(ctx context.Context, email, password string) {
	creds := models.Credentials{Email: email, Password: password}
	if errs := validate.Struct(creds); validate.HasErrors(errs) {
		s.notify.Error(validate.First(errs))
		return
	}

	s.setState(StateAuthenticating)

	session, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		s.setState(StateAnonymous)
		switch {
		case errors.Is(err, gateway.ErrInvalidCredentials):
			s.notify.Error("Incorrect email or password.")
		case errors.Is(err, gateway.ErrEmailNotVerified):
			s.notify.Error("Please verify your email before signing in.")
		default:
			logger.Error("sign-in failed", "error", err)
			s.notify.Error("Could not sign in. Please try again.")
		}
		return
	}

	s.adopt(session)
	s.notify.Success("Welcome back, " + session.Identity.Username + "!")
}

// Signup registers a new account. The identity is not authenticated
// until email verification completes; success only tells the user to
// check their inbox.
func (s *AuthStore) Signup(ctx context.Context, creds models.Credentials) {
	if errs := validate.Struct(creds); validate.HasErrors(errs) {
		s.notify.Error(validate.First(errs))
		return
	}
	if creds.Password != creds.PasswordConfirmation {
		s.notify.Error("Passwords do not match.")
		return
	}

	_, err := s.gw.SignUp(ctx, creds)
	if err != nil {
		if errors.Is(err, gateway.ErrDuplicateEmail) {
			s.notify.Error("An account with this email already exists.")
		} else {
			logger.Error("sign-up failed", "error", err)
			s.notify.Error("Could not create your account. Please try again.")
		}
		return
	}

	s.notify.Info("Account created. Check your email for the verification link.")
}

// VerifyEmail exchanges a one-time verification token from the redirect
// link for a session.
func (s *AuthStore) VerifyEmail(ctx context.Context, token, tokenType string) {
	s.setState(StateAuthenticating)

	session, err := s.gw.VerifyToken(ctx, token, tokenType)
	if err != nil {
		s.setState(StateAnonymous)
		s.reportTokenFailure(err)
		return
	}

	s.adopt(session)
	s.notify.Success("Email verified. You are signed in.")
}

// SetSession validates a pre-issued access/refresh token pair, the
// other encoding a verification redirect link can carry.
func (s *AuthStore) SetSession(ctx context.Context, accessToken, refreshToken string) {
	s.setState(StateAuthenticating)

	session, err := s.gw.SetSession(ctx, accessToken, refreshToken)
	if err != nil {
		s.setState(StateAnonymous)
		s.reportTokenFailure(err)
		return
	}

	s.adopt(session)
	s.notify.Success("Email verified. You are signed in.")
}

func (s *AuthStore) reportTokenFailure(err error) {
	switch {
	case errors.Is(err, gateway.ErrTokenExpired):
		s.notify.Error("This verification link has expired. Please request a new one.")
	case errors.Is(err, gateway.ErrTokenInvalid):
		s.notify.Error("This verification link is not valid.")
	default:
		logger.Error("verification failed", "error", err)
		s.notify.Error("Could not verify your email. Please try again.")
	}
}

// Logout clears the identity and purges the persisted cart: the cart is
// scoped to the identity, not the device.
func (s *AuthStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = gateway.Session{}
	s.state = StateAnonymous
	s.mu.Unlock()

	if err := s.blobs.Delete(identityBlobKey); err != nil {
		logger.Warn("identity blob delete failed", "error", err)
	}

	s.cart.Clear()
	s.onToken("")
	s.notify.Info("Signed out.")
}

// Restore revalidates a persisted identity on startup so a returning
// user is not forced to sign in every session. Silent on failure: an
// expired or invalid session just leaves the store anonymous.
func (s *AuthStore) Restore(ctx context.Context) {
	var saved identityBlob
	ok, err := s.blobs.Get(identityBlobKey, identityBlobVersion, &saved)
	if err != nil || !ok {
		return
	}

	session, err := s.gw.CurrentSession(ctx, saved.AccessToken)
	if err != nil {
		logger.Debug("session restore rejected", "error", err)
		if err := s.blobs.Delete(identityBlobKey); err != nil {
			logger.Warn("identity blob delete failed", "error", err)
		}
		return
	}

	s.adopt(session)
}
