package store

import (
	"fmt"

	"storefront/domain"
)

// NewStore constructs a domain.CatalogStore by kind: "memory", "file",
// "sqlite" or "http". location is the JSON file path, the database path or
// the backend base URL respectively; for memory it is ignored.
func NewStore(kind, location string) (domain.CatalogStore, error) {
	switch kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if location == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(location)
	case "sqlite":
		return NewSQLiteStore(location)
	case "http", "rest":
		return NewHTTPStore(location, nil)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}
