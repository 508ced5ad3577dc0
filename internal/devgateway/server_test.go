package devgateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shopstream/app/models"
	"shopstream/internal/devgateway"
	"shopstream/internal/gateway"
	"shopstream/pkg/token"
)

var dbSeq int64

// newTestServer boots the gateway on a unique in-memory sqlite database
// and returns a client pointed at it.
func newTestServer(t *testing.T) (*gateway.Client, *devgateway.Server) {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", fmt.Sprintf("file:devgw%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1)))

	srv, err := devgateway.New()
	if err != nil {
		t.Fatalf("boot gateway: %v", err)
	}
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return gateway.NewWithURL(ts.URL), srv
}

func draft(title string, price float64, category string) models.ProductDraft {
	return models.ProductDraft{Title: title, Price: price, Category: category}
}

func TestProductCRUDRoundtrip(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	created, err := client.Insert(ctx, draft("Linen Shirt", 49, "Shirts"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected a server-assigned id")
	}
	if created.Category != "shirts" {
		t.Errorf("category not normalized on insert: %q", created.Category)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected server-assigned created_at")
	}

	rows, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != created.ID {
		t.Fatalf("list = %+v", rows)
	}

	created.Price = 39
	updated, err := client.Update(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 39 {
		t.Errorf("updated price = %v", updated.Price)
	}
	if updated.ID != created.ID {
		t.Errorf("update changed the id: %d", updated.ID)
	}

	if err := client.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting again is idempotent.
	if err := client.Delete(ctx, created.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}

	rows, err = client.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty list, got %+v", rows)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := client.Insert(ctx, draft(title, 10, "misc")); err != nil {
			t.Fatalf("insert %s: %v", title, err)
		}
	}

	rows, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 || rows[0].Title != "third" || rows[2].Title != "first" {
		t.Errorf("unexpected ordering: %+v", rows)
	}
}

func TestInsertRejectsInvalidDraft(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.Insert(context.Background(), models.ProductDraft{Price: 10})
	if err == nil {
		t.Fatal("expected a validation rejection")
	}
}

func TestRealtimeEventsOnWrites(t *testing.T) {
	client, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := client.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	// Give the hub a beat to register the connection after the
	// handshake.
	time.Sleep(50 * time.Millisecond)

	created, err := client.Insert(ctx, draft("Linen Shirt", 49, "shirts"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Table != "products" || ev.Type != "INSERT" || ev.ID != created.ID {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no INSERT event arrived")
	}

	if err := client.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != "DELETE" || ev.ID != created.ID {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no DELETE event arrived")
	}
}

func TestAuthFlow(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	creds := models.Credentials{
		Email:                "shopper@shop.test",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Username:             "shopper",
	}

	identity, err := client.SignUp(ctx, creds)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if identity.ID == 0 || identity.Email != creds.Email {
		t.Fatalf("identity = %+v", identity)
	}

	// Unverified accounts cannot sign in yet.
	if _, err := client.SignIn(ctx, creds.Email, creds.Password); err != gateway.ErrEmailNotVerified {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	// The dev gateway logs the verification token instead of mailing
	// it; it is signed with the same secret, so mint an equivalent one.
	verify, err := token.GenerateVerify(identity.ID, identity.Email)
	if err != nil {
		t.Fatalf("mint verify token: %v", err)
	}

	session, err := client.VerifyToken(ctx, verify, "signup")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if session.AccessToken == "" || session.Identity.Email != creds.Email {
		t.Fatalf("session = %+v", session)
	}

	// Now the password works.
	session, err = client.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		t.Fatalf("sign in after verify: %v", err)
	}

	restored, err := client.CurrentSession(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if restored.Identity.Email != creds.Email {
		t.Errorf("restored identity = %+v", restored.Identity)
	}

	paired, err := client.SetSession(ctx, session.AccessToken, session.RefreshToken)
	if err != nil {
		t.Fatalf("set session: %v", err)
	}
	if paired.Identity.ID != identity.ID {
		t.Errorf("paired identity = %+v", paired.Identity)
	}
}

func TestAuthErrorCodes(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	creds := models.Credentials{
		Email:                "taken@shop.test",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
	if _, err := client.SignUp(ctx, creds); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := client.SignUp(ctx, creds); err != gateway.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := client.SignIn(ctx, "nobody@shop.test", "whatever1"); err != gateway.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := client.VerifyToken(ctx, "garbage", "signup"); err != gateway.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := client.CurrentSession(ctx, "garbage"); err != gateway.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGraphQLProductQuery(t *testing.T) {
	client, srv := newTestServer(t)
	ctx := context.Background()

	if _, err := client.Insert(ctx, draft("Basic Tee", 15, "tshirts")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := client.Insert(ctx, draft("Denim Jacket", 120, "jackets")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"query": `{ products(category: "tshirts") { id title price category } }`,
	})

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Data struct {
			Products []struct {
				Title    string  `json:"title"`
				Price    float64 `json:"price"`
				Category string  `json:"category"`
			} `json:"products"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Errors) != 0 {
		t.Fatalf("graphql errors: %v", out.Errors)
	}
	if len(out.Data.Products) != 1 || out.Data.Products[0].Title != "Basic Tee" {
		t.Errorf("products = %+v", out.Data.Products)
	}
}
