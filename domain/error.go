package domain

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned by catalog sources that cannot accept writes
var ErrReadOnly = errors.New("catalog source is read-only")

// ProductNotFoundError is returned when a product with the given ID is not in the catalog
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: id=%d", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// InvalidProductError is returned when product or review validation fails
type InvalidProductError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid product: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidProductError) Is(target error) bool {
	_, ok := target.(*InvalidProductError)
	return ok
}

// DuplicateProductError is returned when attempting to create a product with an existing ID
type DuplicateProductError struct {
	ProductID int
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("duplicate product: id=%d already exists", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *DuplicateProductError) Is(target error) bool {
	_, ok := target.(*DuplicateProductError)
	return ok
}

// CatalogFetchError is returned when a remote catalog source answers with a
// failure status or cannot be reached.
type CatalogFetchError struct {
	Endpoint string
	Status   int // 0 when no response was received
	Message  string
	Err      error
}

func (e *CatalogFetchError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("catalog fetch failed: endpoint=%s, status=%d: %s", e.Endpoint, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("catalog fetch failed: endpoint=%s, status=%d", e.Endpoint, e.Status)
	default:
		return fmt.Sprintf("catalog fetch failed: endpoint=%s: %v", e.Endpoint, e.Err)
	}
}

func (e *CatalogFetchError) Unwrap() error {
	return e.Err
}

// Is allows proper error type checking with errors.Is()
func (e *CatalogFetchError) Is(target error) bool {
	_, ok := target.(*CatalogFetchError)
	return ok
}

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(productID int) error {
	return &ProductNotFoundError{ProductID: productID}
}

// NewInvalidProductError creates a new InvalidProductError
func NewInvalidProductError(field, reason string, value interface{}) error {
	return &InvalidProductError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewDuplicateProductError creates a new DuplicateProductError
func NewDuplicateProductError(productID int) error {
	return &DuplicateProductError{ProductID: productID}
}

// NewCatalogFetchError creates a new CatalogFetchError
func NewCatalogFetchError(endpoint string, status int, message string, err error) error {
	return &CatalogFetchError{
		Endpoint: endpoint,
		Status:   status,
		Message:  message,
		Err:      err,
	}
}

// IsProductNotFoundError checks if an error is a ProductNotFoundError
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsInvalidProductError checks if an error is an InvalidProductError
func IsInvalidProductError(err error) bool {
	var ipe *InvalidProductError
	return errors.As(err, &ipe)
}

// IsDuplicateProductError checks if an error is a DuplicateProductError
func IsDuplicateProductError(err error) bool {
	var dpe *DuplicateProductError
	return errors.As(err, &dpe)
}

// IsCatalogFetchError checks if an error is a CatalogFetchError
func IsCatalogFetchError(err error) bool {
	var cfe *CatalogFetchError
	return errors.As(err, &cfe)
}
