package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

func setupTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, zaptest.NewLogger(t))
	handler.RegisterRoutes(r.Group("/auth"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)

	assert.NotEqual(t, "testpassword123", hash)
	assert.True(t, CheckPassword("testpassword123", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
}

func TestJWTToken(t *testing.T) {
	token, err := GenerateToken(1, "test@example.com", "user")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "user", claims.SystemRole)
}

func TestInvalidToken(t *testing.T) {
	_, err := ValidateToken("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSetSecretInvalidatesOldTokens(t *testing.T) {
	token, err := GenerateToken(1, "test@example.com", "user")
	require.NoError(t, err)

	SetSecret("rotated")
	t.Cleanup(func() { SetSecret("") })

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)

	resp := doJSON(t, router, "POST", "/auth/register", RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "user", registered.User.SystemRole)

	resp = doJSON(t, router, "POST", "/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var loggedIn AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loggedIn))

	resp = doJSON(t, router, "GET", "/auth/me", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, resp.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &me))
	assert.Equal(t, "test@example.com", me.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	body := RegisterRequest{Email: "test@example.com", Password: "password123", Name: "Test"}

	require.Equal(t, http.StatusCreated, doJSON(t, router, "POST", "/auth/register", body, "").Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, "POST", "/auth/register", body, "").Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	doJSON(t, router, "POST", "/auth/register", RegisterRequest{
		Email: "test@example.com", Password: "password123", Name: "Test",
	}, "")

	resp := doJSON(t, router, "POST", "/auth/login", LoginRequest{
		Email: "test@example.com", Password: "nope-nope",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLoginIgnoresEmailCase(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)

	resp := doJSON(t, router, "POST", "/auth/register", RegisterRequest{
		Email: "Mixed.Case@Example.com", Password: "password123", Name: " Mixed ",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))
	assert.Equal(t, "mixed.case@example.com", registered.User.Email)
	assert.Equal(t, "Mixed", registered.User.Name)

	resp = doJSON(t, router, "POST", "/auth/login", LoginRequest{
		Email: "MIXED.CASE@example.com", Password: "password123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, router, "POST", "/auth/register", RegisterRequest{
		Email: "mixed.case@EXAMPLE.com", Password: "password123", Name: "Again",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)
	require.NoError(t, db.Create(&models.User{
		Email: "sso@example.com", Name: "SSO", SystemRole: models.SystemRoleUser,
	}).Error)

	resp := doJSON(t, router, "POST", "/auth/login", LoginRequest{
		Email: "sso@example.com", Password: "anything",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestNewAuthResponse(t *testing.T) {
	user := models.User{ID: 7, Email: "a@example.com", Name: "A", SystemRole: models.SystemRoleAdmin}

	resp, err := NewAuthResponse(user)
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.User.ID)

	claims, err := ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.SystemRole)
}

func TestMeRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, db)

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, router, "GET", "/auth/me", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, router, "GET", "/auth/me", nil, "garbage").Code)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	userToken, _ := GenerateToken(1, "user@example.com", "user")
	adminToken, _ := GenerateToken(2, "admin@example.com", "admin")

	assert.Equal(t, http.StatusForbidden, doJSON(t, r, "GET", "/admin", nil, userToken).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, "GET", "/admin", nil, adminToken).Code)
}

func TestGetIdentityAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id := GetIdentity(c)
	assert.True(t, id.Anonymous())

	SetIdentity(c, Identity{UserID: 7, Email: "a@b.c", SystemRole: "admin"})
	id = GetIdentity(c)
	assert.False(t, id.Anonymous())
	assert.True(t, id.IsAdmin())
	assert.Equal(t, uint(7), id.UserID)
}

func TestEnsureAdmin(t *testing.T) {
	db := setupTestDB(t)

	created, err := EnsureAdmin(db, "admin@vibehunt.local", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(db, "admin@vibehunt.local", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@vibehunt.local").First(&admin).Error)
	assert.Equal(t, models.SystemRoleAdmin, admin.SystemRole)
	assert.True(t, CheckPassword("changeme", admin.PasswordHash))
}
