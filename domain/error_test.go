package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestProductNotFoundError(t *testing.T) {
	t.Run("Error message formatting", func(t *testing.T) {
		err := NewProductNotFoundError(123)
		expected := "product not found: id=123"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("errors.Is detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", NewProductNotFoundError(123))
		if !errors.Is(err, &ProductNotFoundError{}) {
			t.Error("errors.Is should detect ProductNotFoundError")
		}
	})

	t.Run("errors.As conversion", func(t *testing.T) {
		err := NewProductNotFoundError(456)
		var pnf *ProductNotFoundError
		if !errors.As(err, &pnf) {
			t.Fatal("errors.As should convert to ProductNotFoundError")
		}
		if pnf.ProductID != 456 {
			t.Errorf("expected ProductID 456, got %d", pnf.ProductID)
		}
	})
}

func TestInvalidProductError(t *testing.T) {
	err := NewInvalidProductError("price", "must be non-negative", -10.5)
	expected := "invalid product: field=price, reason=must be non-negative, value=-10.5"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	var ipe *InvalidProductError
	if !errors.As(err, &ipe) || ipe.Field != "price" {
		t.Errorf("error fields not correctly preserved")
	}
}

func TestDuplicateProductError(t *testing.T) {
	err := NewDuplicateProductError(7)
	expected := "duplicate product: id=7 already exists"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, &DuplicateProductError{}) {
		t.Error("errors.Is should detect DuplicateProductError")
	}
}

func TestCatalogFetchError(t *testing.T) {
	t.Run("with status and message", func(t *testing.T) {
		err := NewCatalogFetchError("/products", 404, "Product not found", nil)
		expected := "catalog fetch failed: endpoint=/products, status=404: Product not found"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("status only", func(t *testing.T) {
		err := NewCatalogFetchError("/products", 500, "", nil)
		expected := "catalog fetch failed: endpoint=/products, status=500"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("transport failure unwraps", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewCatalogFetchError("/products", 0, "", cause)
		if !errors.Is(err, cause) {
			t.Error("CatalogFetchError should unwrap to its cause")
		}
		if !IsCatalogFetchError(err) {
			t.Error("IsCatalogFetchError should return true")
		}
	})
}

func TestErrorTypeDiscrimination(t *testing.T) {
	pnfErr := NewProductNotFoundError(1)
	ipeErr := NewInvalidProductError("price", "negative", -5)
	dpeErr := NewDuplicateProductError(2)
	cfeErr := NewCatalogFetchError("/products", 502, "", nil)

	checks := []struct {
		name string
		err  error
		want [4]bool // notFound, invalid, duplicate, fetch
	}{
		{"not found", pnfErr, [4]bool{true, false, false, false}},
		{"invalid", ipeErr, [4]bool{false, true, false, false}},
		{"duplicate", dpeErr, [4]bool{false, false, true, false}},
		{"fetch", cfeErr, [4]bool{false, false, false, true}},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			got := [4]bool{
				IsProductNotFoundError(c.err),
				IsInvalidProductError(c.err),
				IsDuplicateProductError(c.err),
				IsCatalogFetchError(c.err),
			}
			if got != c.want {
				t.Errorf("classification = %v, want %v", got, c.want)
			}
		})
	}
}
