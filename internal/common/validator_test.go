package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type sampleRequest struct {
	Name string `validate:"required"`
	Note string `validate:"omitempty,max=4"`
}

func TestGenericEchoValidator(t *testing.T) {
	tests := []struct {
		name    string
		request sampleRequest
		wantErr bool
	}{
		{"Valid", sampleRequest{Name: "frame"}, false},
		{"Valid with note", sampleRequest{Name: "frame", Note: "abcd"}, false},
		{"Missing name", sampleRequest{}, true},
		{"Note too long", sampleRequest{Name: "frame", Note: "abcde"}, true},
	}

	validator := &GenericEchoValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(&tt.request)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var httpError *echo.HTTPError
			if !errors.As(err, &httpError) {
				t.Fatalf("expected echo.HTTPError, got %v", err)
			}
			if httpError.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", httpError.Code)
			}
		})
	}
}
