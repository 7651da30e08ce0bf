package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Days int `json:"days" validate:"min=1"`
	}

	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errIs       error
		errContains string
	}{
		{name: "valid json", requestBody: `{"days": 3}`},
		{name: "invalid json", requestBody: `{"days": 3,}`, wantErr: true, errContains: "invalid character"},
		{name: "empty body", requestBody: "", wantErr: true, errIs: ErrEmptyBody},
		{name: "unknown field", requestBody: `{"days": 3, "weeks": 1}`, wantErr: true, errContains: "unknown field"},
		{name: "trailing object", requestBody: `{"days": 3}{"days": 4}`, wantErr: true, errContains: "single JSON object"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tc.requestBody))

			var p payload
			err := DecodeJSON(req, &p)

			if !tc.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, 3, p.Days)
				return
			}
			assert.Error(t, err)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			}
			if tc.errContains != "" {
				assert.Contains(t, err.Error(), tc.errContains)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return ErrEmptyBody
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	type tagged struct {
		Quality *int `validate:"required,min=0,max=5"`
	}
	five, nine := 5, 9

	assert.NoError(t, ValidateRequest(tagged{Quality: &five}))
	assert.Error(t, ValidateRequest(tagged{Quality: &nine}))
	assert.Error(t, ValidateRequest(tagged{}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), ErrEmptyBody)
}
