package twofactor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/shandysiswandi/twofactor/internal/pkg/clock"
	"github.com/shandysiswandi/twofactor/internal/pkg/config"
	"github.com/shandysiswandi/twofactor/internal/pkg/instrument"
	"github.com/shandysiswandi/twofactor/internal/pkg/mfa"
	"github.com/shandysiswandi/twofactor/internal/pkg/otp"
	"github.com/shandysiswandi/twofactor/internal/pkg/qrcode"
	"github.com/shandysiswandi/twofactor/internal/pkg/router"
	"github.com/shandysiswandi/twofactor/internal/pkg/uid"
	"github.com/shandysiswandi/twofactor/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDependency(t *testing.T, driver string) Dependency {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  twofactor:\n    store:\n      driver: "+driver+"\n"))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	snow, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	ins := instrument.NewNoop()

	return Dependency{
		Ctx:        context.Background(),
		Router:     router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: ins}),
		Config:     cfg,
		Instrument: ins,
		UID:        snow,
		Clock:      clock.Fixed{At: time.Unix(1700000010, 0)},
		Validator:  v,
		Encryptor:  mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: make([]byte, 32)}),
		Totp:       otp.NewTOTP("Acme", 30, 1, libOTP.DigitsSix),
		QR:         qrcode.NewPNG(0, ""),
	}
}

func TestNew_MemoryEndToEnd(t *testing.T) {
	dep := newDependency(t, DriverMemory)
	require.NoError(t, New(dep))

	post := func(path, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		dep.Router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("/api/v1/twofactor/enroll", `{"account_id":"alice"}`))
	assert.Equal(t, http.StatusConflict, post("/api/v1/twofactor/enroll", `{"account_id":"alice"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, post("/api/v1/twofactor/enroll", `{"account_id":"  "}`))
	assert.Equal(t, http.StatusOK, post("/api/v1/twofactor/verify", `{"account_id":"alice","code":"000000"}`))
	assert.Equal(t, http.StatusNotFound, post("/api/v1/twofactor/verify", `{"account_id":"bob","code":"000000"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, post("/api/v1/twofactor/verify", `{"account_id":"alice"}`))

	rec := httptest.NewRecorder()
	dep.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","twofactor_store":"ok"}`, rec.Body.String())
}

func TestNew_StoreDrivers(t *testing.T) {
	assert.ErrorIs(t, New(newDependency(t, DriverRedis)), ErrMissingConn)
	assert.ErrorIs(t, New(newDependency(t, DriverPostgres)), ErrMissingConn)
	assert.ErrorIs(t, New(newDependency(t, "mongo")), ErrUnknownDriver)
}

func TestNew_RequiresDependencies(t *testing.T) {
	dep := newDependency(t, DriverMemory)
	dep.Encryptor = nil

	assert.Error(t, New(dep))
}
