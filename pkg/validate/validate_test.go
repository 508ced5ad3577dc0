package validate_test

import (
	"testing"

	"shopstream/pkg/validate"
)

type draftInput struct {
	Title    string  `json:"title"    validate:"required,max=255"`
	Price    float64 `json:"price"    validate:"required,gte=0"`
	Category string  `json:"category" validate:"required"`
	Discount float64 `json:"discount_percentage" validate:"nullable,between=0,100"`
	Image    string  `json:"image"    validate:"nullable,url"`
}

func TestValidDraft(t *testing.T) {
	errs := validate.Struct(draftInput{
		Title:    "Cotton T-Shirt",
		Price:    499,
		Category: "tshirts",
		Discount: 20,
		Image:    "https://cdn.example.com/tee.jpg",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(draftInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["title"]; !ok {
		t.Error("expected title to be required")
	}
	if _, ok := errs["category"]; !ok {
		t.Error("expected category to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestConfirmedRule(t *testing.T) {
	type in struct {
		Password             string `json:"password"              validate:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Discount float64 `json:"discount" validate:"required,between=0,100"`
	}
	if errs := validate.Struct(in{Discount: 150}); !validate.HasErrors(errs) {
		t.Error("expected discount > 100 to fail")
	}
	if errs := validate.Struct(in{Discount: 75}); validate.HasErrors(errs) {
		t.Errorf("expected discount 75 to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Image string `json:"image" validate:"nullable,url"`
	}
	if errs := validate.Struct(in{Image: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Image: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestInRuleKeepsMultiValueParams(t *testing.T) {
	type in struct {
		Type string `json:"type" validate:"required,in=signup,magiclink,recovery"`
	}
	if errs := validate.Struct(in{Type: "invite"}); !validate.HasErrors(errs) {
		t.Error("expected unknown type to fail")
	}
	if errs := validate.Struct(in{Type: "signup"}); validate.HasErrors(errs) {
		t.Errorf("expected signup to pass: %v", errs)
	}
}

func TestFirstReturnsOneMessage(t *testing.T) {
	errs := validate.Struct(draftInput{})
	if validate.First(errs) == "" {
		t.Error("expected a message from a non-empty error map")
	}
	if validate.First(map[string]string{}) != "" {
		t.Error("expected empty string from an empty map")
	}
}
