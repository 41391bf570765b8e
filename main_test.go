package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test_jwt_secret",
		TokenTTL:  time.Hour,
		OTPTTL:    time.Minute,
		OTPLength: 6,
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New("sqlite://file:"+uuid.NewString()+"?mode=memory&cache=shared", gormlogger.Silent)
	require.NoError(t, err)
	return db
}

func TestHealth(t *testing.T) {
	app := newApp(testConfig(), testDB(t), nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["events"])
}

func TestSeedAdmin_SigninAndCatalogAccess(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repositories.NewGORMUserRepository(db)

	require.NoError(t, seedAdmin(ctx, users, "admin@example.com", "adminpass1"))
	// Seeding again is a no-op.
	require.NoError(t, seedAdmin(ctx, users, "admin@example.com", "adminpass1"))
	// Missing credentials skip seeding.
	require.NoError(t, seedAdmin(ctx, users, "", ""))

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)

	app := newApp(testConfig(), db, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"admin@example.com","password":"adminpass1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var signin struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&signin))
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+signin.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeedDemoAttributes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := services.NewAttributeService(repositories.NewGORMAttributeRepository(db))

	seedDemoAttributes(ctx, svc)
	seedDemoAttributes(ctx, svc)

	attributes, err := svc.ListAttributes(ctx)
	require.NoError(t, err)
	require.Len(t, attributes, 3)

	for _, a := range attributes {
		items, err := svc.ListAttributeItems(ctx, a.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, items, a.Name)
	}
}
