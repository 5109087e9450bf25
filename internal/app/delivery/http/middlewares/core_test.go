package middlewares

import (
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestMiddlewares() *Middlewares {
	return &Middlewares{
		Log:            zap.NewNop(),
		InternalConfig: &config.InternalConfig{},
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := newTestMiddlewares()

	t.Run("Client request id is preserved", func(t *testing.T) {
		var seenRequestID string
		var seenClientFlag bool
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			seenClientFlag, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/doctors", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-supplied-id")

		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, "client-supplied-id", seenRequestID, "context should carry the client id")
		assert.True(t, seenClientFlag, "client-supplied id should be flagged as such")
		assert.Equal(t, "client-supplied-id", rr.Header().Get(constvars.HeaderXRequestID), "response should echo the id")
	})

	t.Run("Missing request id is generated", func(t *testing.T) {
		var seenRequestID string
		var seenClientFlag bool
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			seenClientFlag, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/doctors", nil)

		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(testHandler).ServeHTTP(rr, req)

		assert.True(t, strings.HasPrefix(seenRequestID, constvars.REQUEST_ID_PREFIX), "generated id should carry the service prefix")
		assert.False(t, seenClientFlag, "generated id should not be flagged as client-supplied")
		assert.Equal(t, seenRequestID, rr.Header().Get(constvars.HeaderXRequestID), "response header should match the context id")
	})
}

func TestErrorHandler(t *testing.T) {
	middlewares := newTestMiddlewares()

	t.Run("Panicked custom error keeps its status code", func(t *testing.T) {
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(exceptions.ErrDoctorNotFound(nil))
		})

		req := httptest.NewRequest("GET", "/api/v1/doctors/missing/dashboard", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)

		var body exceptions.CustomError
		err := json.Unmarshal(rr.Body.Bytes(), &body)
		assert.NoError(t, err)
		assert.False(t, body.Success)
		assert.Equal(t, constvars.ErrClientDoctorNotFound, body.ClientMessage)
	})

	t.Run("Panicked plain error becomes 500", func(t *testing.T) {
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(errors.New("boom"))
		})

		req := httptest.NewRequest("GET", "/api/v1/doctors", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Healthy handler passes through untouched", func(t *testing.T) {
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		req := httptest.NewRequest("GET", "/api/v1/doctors", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})
}
