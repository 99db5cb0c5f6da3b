package projects

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmcut/filmcut-backend/internal/auth"
)

// Router with the save route only; validation failures return before any
// store access, so a nil repo is fine here.
func newSaveRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.CtxUserID, "u1")
		c.Next()
	})
	h := &Handler{}
	r.POST("/api/projects/save", h.save)
	return r
}

func TestSave_RejectsBadBody(t *testing.T) {
	r := newSaveRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/save", strings.NewReader(`{nope`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSave_RejectsMissingName(t *testing.T) {
	r := newSaveRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/save",
		strings.NewReader(`{"name":"  ","data":{"glasses":[]}}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "project name required", resp["message"])
}

func TestSave_MalformedIDIsNotFound(t *testing.T) {
	r := newSaveRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/save",
		strings.NewReader(`{"id":"not-a-uuid","name":"X","data":{}}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSave_RejectsInvalidPayloadJSON(t *testing.T) {
	r := newSaveRouter(t)

	// data is a JSON string, not an object: binding passes, normalization fails
	req := httptest.NewRequest(http.MethodPost, "/api/projects/save",
		strings.NewReader(`{"name":"X","data":"not-an-object"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
