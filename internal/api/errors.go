package api

import "github.com/gofiber/fiber/v3"

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrQuoteFailedInternal signals a generic server-side quoting error.
var ErrQuoteFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "quote failed")

// NewBadIntent maps an intent validation failure to a 400 Bad Request.
func NewBadIntent(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

// NewPoolUnavailable maps a missing or drained pool to a 400 Bad Request.
func NewPoolUnavailable(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
