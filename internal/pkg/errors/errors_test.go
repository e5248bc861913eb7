package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(CodeCampaignNotFound, "campaign not found", http.StatusNotFound),
			want: "CAMPAIGN_NOT_FOUND: campaign not found",
		},
		{
			name: "with wrapped error",
			err:  Wrap(fmt.Errorf("db error"), CodeInternal, "append log", http.StatusInternalServerError),
			want: "INTERNAL_ERROR: append log: db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap(inner, "CODE", "msg", 500)

	if !errors.Is(appErr, inner) {
		t.Error("errors.Is should match inner error")
	}
}

func TestIsAppError(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", ErrCampaignNotFoundf(7))

	got, ok := IsAppError(wrapped)
	if !ok {
		t.Fatal("IsAppError should find wrapped AppError")
	}
	if got.HTTPStatus != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want 404", got.HTTPStatus)
	}
	if got.Params["campaign_id"] != int64(7) {
		t.Errorf("Params[campaign_id] = %v, want 7", got.Params["campaign_id"])
	}

	if _, ok := IsAppError(errors.New("plain")); ok {
		t.Error("IsAppError should not match plain errors")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Conflict(CodeAlreadySubscribed, "already subscribed"))
	if !HasCode(err, CodeAlreadySubscribed) {
		t.Error("HasCode should match ALREADY_SUBSCRIBED")
	}
	if HasCode(err, CodeCampaignNotFound) {
		t.Error("HasCode should not match a different code")
	}
}

func TestWithParams_Empty(t *testing.T) {
	e := BadRequest(CodeInvalidChannel, "bad channel").WithParams(nil)
	if e.Params != nil {
		t.Errorf("Params = %v, want nil", e.Params)
	}
}

func TestConstructors_Status(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("X", "x"), http.StatusNotFound},
		{BadRequest("X", "x"), http.StatusBadRequest},
		{Unauthorized("X", "x"), http.StatusUnauthorized},
		{Forbidden("X", "x"), http.StatusForbidden},
		{Conflict("X", "x"), http.StatusConflict},
		{Internal("X", "x"), http.StatusInternalServerError},
		{ErrInvalidRequestf("field %s", "name"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		if tt.err.HTTPStatus != tt.want {
			t.Errorf("%s HTTPStatus = %d, want %d", tt.err.Code, tt.err.HTTPStatus, tt.want)
		}
	}
}
