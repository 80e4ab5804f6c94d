package apikeys

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	user := models.User{Email: email, PasswordHash: "hash", Name: "Test User", SystemRole: models.SystemRoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email, string(user.SystemRole))
	return "Bearer " + token
}

func setupTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	r := gin.New()
	api := r.Group("/api")

	NewHandler(db, logger).RegisterRoutes(api.Group("", auth.AuthMiddleware()))

	whoami := func(c *gin.Context) {
		id := auth.GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "anonymous": id.Anonymous()})
	}
	api.GET("/required", CombinedAuthMiddleware(db, logger), whoami)
	api.GET("/optional", OptionalAuthMiddleware(db, logger), whoami)
	return r
}

func serve(r http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createKey(t *testing.T, r http.Handler, user models.User) CreateAPIKeyResponse {
	req, _ := http.NewRequest("POST", "/api/api-keys", strings.NewReader(`{"description":"ci"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created CreateAPIKeyResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return created
}

func TestCreateAndListAPIKeys(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	user := createTestUser(t, db, "test@example.com")

	created := createKey(t, router, user)
	assert.Len(t, created.Key, KeyLength*2)
	assert.Equal(t, created.Key[:KeyPrefixLength], created.KeyPrefix)
	assert.Equal(t, "ci", created.Description)

	resp := serve(router, "GET", "/api/api-keys", getAuthHeader(user))
	require.Equal(t, http.StatusOK, resp.Code)

	var keys []APIKeyResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &keys))
	require.Len(t, keys, 1)
	assert.NotContains(t, resp.Body.String(), created.Key)
}

func TestAPIKeyAuthenticates(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	user := createTestUser(t, db, "test@example.com")
	created := createKey(t, router, user)

	resp := serve(router, "GET", "/api/required", "Bearer "+created.Key)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"anonymous":false`)

	var stored models.APIKey
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.NotNil(t, stored.LastUsedAt)
}

func TestCombinedAuthRejectsMissingAndBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)

	assert.Equal(t, http.StatusUnauthorized, serve(router, "GET", "/api/required", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "GET", "/api/required", "Bearer deadbeef").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "GET", "/api/required", "Basic abc").Code)
}

func TestOptionalAuth(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	user := createTestUser(t, db, "test@example.com")

	resp := serve(router, "GET", "/api/optional", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"anonymous":true`)

	resp = serve(router, "GET", "/api/optional", getAuthHeader(user))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"anonymous":false`)

	assert.Equal(t, http.StatusUnauthorized, serve(router, "GET", "/api/optional", "Bearer not.a.jwt").Code)
}

func TestDeleteAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	created := createKey(t, router, owner)

	path := "/api/api-keys/" + strconv.FormatUint(uint64(created.ID), 10)
	assert.Equal(t, http.StatusNotFound, serve(router, "DELETE", path, getAuthHeader(other)).Code)
	assert.Equal(t, http.StatusOK, serve(router, "DELETE", path, getAuthHeader(owner)).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(router, "GET", "/api/required", "Bearer "+created.Key).Code)
}
