package errors

import (
	"fmt"
	"net/http"
)

// Error codes are stable API contract; messages are English and for logs only.

// Campaign error codes.
const (
	CodeCampaignNotFound        = "CAMPAIGN_NOT_FOUND"
	CodeCampaignNotDispatchable = "CAMPAIGN_NOT_DISPATCHABLE"
	CodeCampaignAlreadySent     = "CAMPAIGN_ALREADY_SENT"
)

// Newsletter error codes.
const (
	CodeNewsletterNotFound   = "NEWSLETTER_NOT_FOUND"
	CodePostNotFound         = "POST_NOT_FOUND"
	CodePostNotDispatchable  = "POST_NOT_DISPATCHABLE"
	CodeSubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"
	CodeAlreadySubscribed    = "ALREADY_SUBSCRIBED"
)

// User, order and catalog error codes.
const (
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeUserExists      = "USER_ALREADY_EXISTS"
	CodeOrderNotFound   = "ORDER_NOT_FOUND"
	CodeProductNotFound = "PRODUCT_NOT_FOUND"

	CodePreferenceNotFound = "PREFERENCE_NOT_FOUND"
)

// Auth error codes.
const (
	CodeAuthFailed   = "AUTH_FAILED"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeForbidden    = "FORBIDDEN"
)

// Validation error codes.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidChannel  = "INVALID_CHANNEL"
	CodeInvalidCategory = "INVALID_CATEGORY"
	CodeInvalidSchedule = "INVALID_SCHEDULE"
	CodeInvalidAmount   = "INVALID_AMOUNT"
)

// Generic codes.
const (
	CodeInternal = "INTERNAL_ERROR"
)

// ErrCampaignNotFoundf creates a campaign not found error.
func ErrCampaignNotFoundf(id int64) *AppError {
	return NotFound(CodeCampaignNotFound, fmt.Sprintf("campaign %d not found", id)).
		WithParams(map[string]interface{}{"campaign_id": id})
}

// ErrPostNotFoundf creates a newsletter post not found error.
func ErrPostNotFoundf(id int64) *AppError {
	return NotFound(CodePostNotFound, fmt.Sprintf("newsletter post %d not found", id)).
		WithParams(map[string]interface{}{"post_id": id})
}

// ErrNewsletterNotFoundf creates a newsletter not found error.
func ErrNewsletterNotFoundf(id int64) *AppError {
	return NotFound(CodeNewsletterNotFound, fmt.Sprintf("newsletter %d not found", id)).
		WithParams(map[string]interface{}{"newsletter_id": id})
}

// ErrUserNotFoundf creates a user not found error.
func ErrUserNotFoundf(userID string) *AppError {
	return NotFound(CodeUserNotFound, "user not found").
		WithParams(map[string]interface{}{"user_id": userID})
}

// ErrOrderNotFoundf creates an order not found error.
func ErrOrderNotFoundf(id int64) *AppError {
	return NotFound(CodeOrderNotFound, fmt.Sprintf("order %d not found", id)).
		WithParams(map[string]interface{}{"order_id": id})
}

// ErrProductNotFoundf creates a product not found error.
func ErrProductNotFoundf(id int64) *AppError {
	return NotFound(CodeProductNotFound, fmt.Sprintf("product %d not found", id)).
		WithParams(map[string]interface{}{"product_id": id})
}

// ErrInvalidRequestf creates a 400 for malformed input.
func ErrInvalidRequestf(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       CodeInvalidRequest,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusBadRequest,
	}
}
