package response_test

import (
	"dogwalking/shared/constant"
	"dogwalking/shared/failure"
	"dogwalking/transport/http/response"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      int
		wantKind      string
		wantMessage   string
		wantRetryable bool
	}{
		{
			name:        "missing proof",
			err:         fmt.Errorf("failed to start: %w", failure.MissingProof("pickup proof is required")),
			wantCode:    http.StatusPreconditionFailed,
			wantKind:    failure.KindMissingProof,
			wantMessage: "failed to start: pickup proof is required",
		},
		{
			name:          "busy booking",
			err:           failure.ResourceBusy("booking is locked"),
			wantCode:      http.StatusConflict,
			wantKind:      failure.KindResourceBusy,
			wantMessage:   "booking is locked",
			wantRetryable: true,
		},
		{
			name:        "plain errors are masked",
			err:         errors.New("pq: connection refused"),
			wantCode:    http.StatusInternalServerError,
			wantKind:    failure.KindInternal,
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body response.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantMessage, *body.Error)
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.Equal(t, tt.wantRetryable, body.Retryable)

			if tt.wantRetryable {
				assert.Equal(t, "1", rec.Header().Get(constant.ResponseHeaderRetryAfter))
			} else {
				assert.Empty(t, rec.Header().Get(constant.ResponseHeaderRetryAfter))
			}
		})
	}
}
