package errors

import "github.com/pkg/errors"

var (
	// configuration errors
	ErrMissingConfiguration = errors.New("required configuration is missing")

	// form source errors
	ErrSourceUnavailable = errors.New("form source unavailable")

	// normalization errors
	ErrUnparseableEmail = errors.New("email value could not be normalized")

	// register errors
	ErrCourierItemNotFound = errors.New("courier item not found")

	// delivery errors
	ErrMissingRecipient = errors.New("courier item has no recipient email")
)
