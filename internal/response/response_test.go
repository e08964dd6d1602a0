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

func TestFail_SessionSupersededUses401(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, CodeSessionSuperseded, "signed in elsewhere")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, 4011, body.Code)
	assert.Equal(t, "signed in elsewhere", body.Message)
}

func TestOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"id": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"success","data":{"id":1},"code":200}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 401, StatusFor(4012))
	assert.Equal(t, 429, StatusFor(429))
	assert.Equal(t, 500, StatusFor(0))
	assert.Equal(t, 500, StatusFor(7000))
}
