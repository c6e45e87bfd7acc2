package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addLineRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"omitempty,min=1"`
}

func bindAndRespond(t *testing.T, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req addLineRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		RespondWithValidationError(c, err, "Invalid line")
	}
	return w, err
}

func TestRespondWithValidationError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields map[string]string
	}{
		{
			name:       "Missing required field",
			body:       `{}`,
			wantFields: map[string]string{"item_id": "is required"},
		},
		{
			name:       "Below minimum",
			body:       `{"item_id": 2, "quantity": -3}`,
			wantFields: map[string]string{"quantity": "must be at least 1"},
		},
		{
			name:       "Wrong type",
			body:       `{"item_id": "two"}`,
			wantFields: map[string]string{"item_id": "must be a number"},
		},
		{
			name: "Malformed JSON",
			body: `{"item_id":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := bindAndRespond(t, tt.body)
			require.Error(t, err)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body ValidationError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, ValidationInvalidInput, body.Error)
			assert.Equal(t, "Invalid line", body.Message)
			assert.Equal(t, tt.wantFields, body.Fields)
		})
	}
}

func TestValidationFields_Nil(t *testing.T) {
	assert.Nil(t, ValidationFields(nil))
	assert.Nil(t, ValidationFields(assert.AnError))
}
