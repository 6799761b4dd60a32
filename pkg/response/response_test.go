package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOK_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"id": "abc"})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "abc", body["result"]["data"]["id"])
	_, hasError := body["error"]
	assert.False(t, hasError)
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		send       func(*gin.Context, string)
		wantStatus int
		wantCode   int
	}{
		{"bad request", BadRequest, http.StatusBadRequest, CodeBadRequest},
		{"unauthorized", Unauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", Forbidden, http.StatusForbidden, CodeForbidden},
		{"not found", NotFound, http.StatusNotFound, CodeNotFound},
		{"conflict", Conflict, http.StatusConflict, CodeConflict},
		{"internal", Internal, http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.send(c, "something broke")

			assert.Equal(t, tt.wantStatus, w.Code)

			var body Body
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Nil(t, body.Result)
			assert.Equal(t, "something broke", body.Error.Message)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantStatus, body.Error.Data.HTTPStatus)
		})
	}
}
