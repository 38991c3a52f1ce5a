package catalog

import "errors"

var (
	// ErrCatalogUnavailable is returned when a catalog cannot be reached
	// or its response cannot be understood.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrUnknownSortPolicy is returned for an unrecognized sort policy name.
	ErrUnknownSortPolicy = errors.New("unknown sort policy")

	// ErrUnknownKind is returned for an unrecognized source kind.
	ErrUnknownKind = errors.New("unknown catalog kind")
)
