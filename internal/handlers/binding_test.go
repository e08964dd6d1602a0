package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindingContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindNestedOrFlat(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expected    string
		expectError bool
	}{
		{"wrapped", `{"customer": {"companyName": "Acme"}}`, "Acme", false},
		{"flat", `{"companyName": "Globex"}`, "Globex", false},
		{"other keys fall back to flat", `{"other": 1, "companyName": "Initech"}`, "Initech", false},
		{"wrong type", `{"companyName": 5}`, "", true},
		{"wrapped but invalid", `{"customer": "Acme"}`, "", true},
		{"empty body", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var customer models.Customer
			err := BindNestedOrFlat(bindingContext(tt.body), "customer", &customer)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, customer.CompanyName)
		})
	}
}

func TestBindNestedOrFlat_ImagePresence(t *testing.T) {
	var absent services.SampleInput
	require.NoError(t, BindNestedOrFlat(bindingContext(`{"model": "M1"}`), "sample", &absent))
	assert.Nil(t, absent.Image)

	var cleared services.SampleInput
	require.NoError(t, BindNestedOrFlat(bindingContext(`{"model": "M1", "image": ""}`), "sample", &cleared))
	require.NotNil(t, cleared.Image)
	assert.Equal(t, "", *cleared.Image)
}
