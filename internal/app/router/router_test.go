package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parking_control/internal/app/di"
	authadapters "parking_control/internal/feature/auth/adapters"
	authhandler "parking_control/internal/feature/auth/transport/handler"
	authusecase "parking_control/internal/feature/auth/usecase"
	parkingspotadapters "parking_control/internal/feature/parkingspot/adapters"
	parkingspothandler "parking_control/internal/feature/parkingspot/transport/handler"
	parkingspotusecase "parking_control/internal/feature/parkingspot/usecase"
	platformhandler "parking_control/internal/platform/http/handler"
	jwtmw "parking_control/internal/platform/jwt"
	"parking_control/internal/shared/ratelimiter"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer wires the full application against an in-memory SQLite database
// with one admin ("admin") and one plain user ("user").
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestServerWithLimiter(t, nil)
}

func newTestServerWithLimiter(t *testing.T, limiter *ratelimiter.RateLimiter) *gin.Engine {
	t.Helper()
	t.Setenv(jwtmw.EnvKeyJWTSecret, testSecret)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, di.Migrate(gdb))

	ctx := context.Background()
	blocklist := di.NewTokenBlocklist(ctx, nil, gdb)
	authUC := authusecase.NewAuthUsecase(
		authadapters.NewUserRepository(gdb),
		authadapters.NewRoleRepository(gdb),
		blocklist,
		jwtmw.NewGenerator(testSecret, time.Hour),
	)
	require.NoError(t, authUC.SeedRoles(ctx))
	created, err := authUC.EnsureAdmin(ctx, "admin", "admin-password")
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, authUC.Signup(ctx, "user", "user-password"))

	spotUC := parkingspotusecase.NewParkingSpotUsecase(parkingspotadapters.NewParkingSpotRepository(gdb))

	return NewRouter(
		platformhandler.NewHealthHandler(sqlDB),
		authhandler.NewAuthHandler(authUC),
		parkingspothandler.NewParkingSpotHandler(spotUC),
		blocklist,
		limiter,
	)
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()

	w := do(r, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func spotBody(number, plate, apartment, block string) gin.H {
	return gin.H{
		"parking_spot_number": number,
		"license_plate_car":   plate,
		"model_car":           "Civic",
		"brand_car":           "Honda",
		"color_car":           "Black",
		"responsible_name":    "Ana Souza",
		"apartment":           apartment,
		"block":               block,
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestRouter_Health(t *testing.T) {
	r := newTestServer(t)

	w := do(r, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_Unauthenticated(t *testing.T) {
	r := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/parking-spot"},
		{http.MethodGet, "/parking-spot"},
		{http.MethodGet, "/parking-spot/1"},
		{http.MethodPut, "/parking-spot/1"},
		{http.MethodDelete, "/parking-spot/1"},
		{http.MethodPost, "/logout"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := do(r, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = do(r, rt.method, rt.path, "not-a-jwt", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_RoleGates(t *testing.T) {
	r := newTestServer(t)
	userToken := login(t, r, "user", "user-password")

	tests := []struct {
		method         string
		path           string
		body           any
		expectedStatus int
	}{
		{http.MethodPost, "/parking-spot", spotBody("101", "ABC1234", "12", "B"), http.StatusForbidden},
		{http.MethodPut, "/parking-spot/1", spotBody("101", "ABC1234", "12", "B"), http.StatusForbidden},
		{http.MethodDelete, "/parking-spot/1", nil, http.StatusForbidden},
		{http.MethodGet, "/parking-spot", nil, http.StatusOK},
		{http.MethodGet, "/parking-spot/1", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(r, tt.method, tt.path, userToken, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestRouter_ForbiddenCreateLeavesStorageUntouched(t *testing.T) {
	r := newTestServer(t)
	userToken := login(t, r, "user", "user-password")
	adminToken := login(t, r, "admin", "admin-password")

	w := do(r, http.MethodPost, "/parking-spot", userToken, spotBody("101", "ABC1234", "12", "B"))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/parking-spot", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total_elements"])
}

func TestRouter_ParkingSpotLifecycle(t *testing.T) {
	r := newTestServer(t)
	admin := login(t, r, "admin", "admin-password")

	// A is created
	w := do(r, http.MethodPost, "/parking-spot", admin, spotBody("101", "ABC1234", "12", "B"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decode(t, w)
	assert.Equal(t, float64(1), a["id"])
	registered := a["registration_date"]
	require.NotEmpty(t, registered)

	// B reuses A's plate
	w = do(r, http.MethodPost, "/parking-spot", admin, spotBody("102", "ABC1234", "13", "B"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict: License Plate Car is already in use!", decode(t, w)["error"])

	// B reuses A's spot number
	w = do(r, http.MethodPost, "/parking-spot", admin, spotBody("101", "XYZ9876", "13", "B"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict: Parking Spot is already in use!", decode(t, w)["error"])

	// B reuses A's apartment and block
	w = do(r, http.MethodPost, "/parking-spot", admin, spotBody("102", "XYZ9876", "12", "B"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict: Parking Spot is already registered for this apartment/block!", decode(t, w)["error"])

	// A is updated in place
	updated := spotBody("101", "ABC1234", "12", "B")
	updated["color_car"] = "Red"
	w = do(r, http.MethodPut, "/parking-spot/1", admin, updated)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, float64(1), got["id"])
	assert.Equal(t, registered, got["registration_date"])
	assert.Equal(t, "Red", got["color_car"])

	// reads see the update
	w = do(r, http.MethodGet, "/parking-spot/1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Red", decode(t, w)["color_car"])

	// delete then read
	w = do(r, http.MethodDelete, "/parking-spot/1", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Parking Spot deleted successfully."}`, w.Body.String())

	w = do(r, http.MethodGet, "/parking-spot/1", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parking Spot not found.", decode(t, w)["error"])

	w = do(r, http.MethodDelete, "/parking-spot/1", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parking Spot not found", decode(t, w)["error"])
}

func TestRouter_ListPagination(t *testing.T) {
	r := newTestServer(t)
	admin := login(t, r, "admin", "admin-password")
	user := login(t, r, "user", "user-password")

	for i := 1; i <= 5; i++ {
		body := spotBody(fmt.Sprintf("%d", 100+i), fmt.Sprintf("AAA%04d", i), fmt.Sprintf("%d", i), "A")
		w := do(r, http.MethodPost, "/parking-spot", admin, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(r, http.MethodGet, "/parking-spot?page=0&size=2&sort=id&direction=asc", user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Content []struct {
			ID uint `json:"id"`
		} `json:"content"`
		TotalElements int64 `json:"total_elements"`
		TotalPages    int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 2)
	assert.Equal(t, uint(1), page.Content[0].ID)
	assert.Equal(t, uint(2), page.Content[1].ID)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)

	w = do(r, http.MethodGet, "/parking-spot?sort=password", user, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Logout(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "user", "user-password")

	w := do(r, http.MethodGet, "/parking-spot", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/parking-spot", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked token must be rejected")

	// a fresh login still works
	fresh := login(t, r, "user", "user-password")
	w = do(r, http.MethodGet, "/parking-spot", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SignupGrantsUserRoleOnly(t *testing.T) {
	r := newTestServer(t)

	w := do(r, http.MethodPost, "/signup", "", gin.H{"username": "carol", "password": "carol-password"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/signup", "", gin.H{"username": "carol", "password": "carol-password"})
	assert.Equal(t, http.StatusConflict, w.Code)

	token := login(t, r, "carol", "carol-password")
	w = do(r, http.MethodPost, "/parking-spot", token, spotBody("101", "ABC1234", "12", "B"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/login", "", gin.H{"username": "carol", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// crossOrigin differs from httptest's default host; cors skips same-origin requests.
const crossOrigin = "http://frontend.test"

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/parking-spot", nil)
	req.Header.Set("Origin", crossOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}

func TestRouter_CORSSimpleRequest(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "user", "user-password")

	req := httptest.NewRequest(http.MethodGet, "/parking-spot", nil)
	req.Header.Set("Origin", crossOrigin)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AuthRateLimit(t *testing.T) {
	r := newTestServerWithLimiter(t, ratelimiter.NewRateLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/login", "", gin.H{"username": "user", "password": "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := do(r, http.MethodPost, "/login", "", gin.H{"username": "user", "password": "user-password"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "correct password is still throttled")

	// parking spot routes are not throttled
	w = do(r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
