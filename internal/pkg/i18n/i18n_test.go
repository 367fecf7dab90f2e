package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "Attendance record not found", T(ctx, "error.record_not_found"))
	assert.Equal(t, "Data kehadiran tidak ditemukan", T(WithLocale(ctx, "id"), "error.record_not_found"))

	// Unknown ids fall back to the id itself
	assert.Equal(t, "error.nope", T(ctx, "error.nope"))
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, "id", Negotiate("id-ID,id;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", Negotiate("en-US"))
	assert.Equal(t, "", Negotiate(""))
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "id")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "id", got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "en", got)
}
