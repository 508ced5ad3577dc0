package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"shopstream/app/models"
	"shopstream/internal/gateway"
	"shopstream/pkg/notify"
)

// fakeGateway is an in-memory stand-in for the remote gateway. Failure
// flags make individual operations fail on demand.
type fakeGateway struct {
	mu     sync.Mutex
	rows   []models.Product
	nextID uint

	failList   bool
	failInsert bool
	failUpdate bool
	failDelete bool

	insertCalls int

	events chan gateway.ChangeEvent

	// auth side
	users       map[string]fakeUser
	sessions    map[string]gateway.Session
	verifyErr   error
	signInCalls int
}

type fakeUser struct {
	password string
	verified bool
	identity models.Identity
}

func newFakeGateway(seed ...models.Product) *fakeGateway {
	g := &fakeGateway{
		nextID:   100,
		users:    map[string]fakeUser{},
		sessions: map[string]gateway.Session{},
	}
	g.rows = append(g.rows, seed...)
	return g
}

func (g *fakeGateway) List(ctx context.Context) ([]models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failList {
		return nil, errors.New("boom")
	}
	out := make([]models.Product, len(g.rows))
	copy(out, g.rows)
	return out, nil
}

func (g *fakeGateway) Insert(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.insertCalls++
	if g.failInsert {
		return models.Product{}, errors.New("boom")
	}
	g.nextID++
	row := draft.Row()
	row.ID = g.nextID
	g.rows = append([]models.Product{row}, g.rows...)
	return row, nil
}

func (g *fakeGateway) Update(ctx context.Context, p models.Product) (models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failUpdate {
		return models.Product{}, errors.New("boom")
	}
	for i := range g.rows {
		if g.rows[i].ID == p.ID {
			g.rows[i] = p
			return p, nil
		}
	}
	return models.Product{}, gateway.ErrNotFound
}

func (g *fakeGateway) Delete(ctx context.Context, id uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failDelete {
		return errors.New("boom")
	}
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return nil // missing id reads as success
}

func (g *fakeGateway) Subscribe(ctx context.Context) (<-chan gateway.ChangeEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = make(chan gateway.ChangeEvent, 8)
	return g.events, nil
}

func (g *fakeGateway) SignIn(ctx context.Context, email, password string) (gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signInCalls++
	u, ok := g.users[email]
	if !ok || u.password != password {
		return gateway.Session{}, gateway.ErrInvalidCredentials
	}
	if !u.verified {
		return gateway.Session{}, gateway.ErrEmailNotVerified
	}
	s := gateway.Session{
		AccessToken:  "access-" + email,
		RefreshToken: "refresh-" + email,
		Identity:     u.identity,
	}
	g.sessions[s.AccessToken] = s
	return s, nil
}

func (g *fakeGateway) SignUp(ctx context.Context, creds models.Credentials) (models.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.users[creds.Email]; exists {
		return models.Identity{}, gateway.ErrDuplicateEmail
	}
	id := models.Identity{ID: uint(len(g.users) + 1), Email: creds.Email, Username: creds.Username}
	g.users[creds.Email] = fakeUser{password: creds.Password, identity: id}
	return id, nil
}

func (g *fakeGateway) VerifyToken(ctx context.Context, token, tokenType string) (gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifyErr != nil {
		return gateway.Session{}, g.verifyErr
	}
	return gateway.Session{
		AccessToken: "access-verified",
		Identity:    models.Identity{ID: 1, Email: "verified@shop.test"},
	}, nil
}

func (g *fakeGateway) SetSession(ctx context.Context, accessToken, refreshToken string) (gateway.Session, error) {
	return g.CurrentSession(ctx, accessToken)
}

func (g *fakeGateway) CurrentSession(ctx context.Context, accessToken string) (gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[accessToken]
	if !ok {
		return gateway.Session{}, gateway.ErrTokenInvalid
	}
	return s, nil
}

// toastRecorder collects everything the store reports to the user.
type toastRecorder struct {
	mu     sync.Mutex
	toasts []notify.Toast
}

func recordToasts(n *notify.Notifier) *toastRecorder {
	r := &toastRecorder{}
	n.Listen(func(t notify.Toast) {
		r.mu.Lock()
		r.toasts = append(r.toasts, t)
		r.mu.Unlock()
	})
	return r
}

func (r *toastRecorder) last() (notify.Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return notify.Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

func (r *toastRecorder) lastLevel() notify.Level {
	t, _ := r.last()
	return t.Level
}

func changeEvent(table, typ string, id uint) gateway.ChangeEvent {
	return gateway.ChangeEvent{Table: table, Type: typ, ID: id}
}

// waitFor polls cond for up to a second, for assertions that race a
// background goroutine.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func product(id uint, title string, price float64, category string) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Price:    price,
		Category: category,
		SKU:      fmt.Sprintf("SKU-%d", id),
	}
}
