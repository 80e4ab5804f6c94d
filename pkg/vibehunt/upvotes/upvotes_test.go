package upvotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/apikeys"
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

func createTestProduct(t *testing.T, db *gorm.DB, owner models.User) models.Product {
	product := models.Product{URL: "https://www.example.com", Title: "Example", CreatedByID: owner.ID}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func identityFor(user models.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Email: user.Email, SystemRole: string(user.SystemRole)}
}

func upvoteCount(t *testing.T, db *gorm.DB, productID string) int {
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", productID).Error)
	return p.UpvoteCount
}

func voteRows(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.Upvote{}).Count(&n).Error)
	return n
}

func TestToggleAddsThenRemoves(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")
	product := createTestProduct(t, db, user)
	svc := NewService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	action, err := svc.Toggle(ctx, identityFor(user), product.ID)
	require.Nil(t, err)
	assert.Equal(t, ActionAdded, action)
	assert.Equal(t, int64(1), voteRows(t, db))
	assert.Equal(t, 1, upvoteCount(t, db, product.ID))

	action, err = svc.Toggle(ctx, identityFor(user), product.ID)
	require.Nil(t, err)
	assert.Equal(t, ActionRemoved, action)
	assert.Equal(t, int64(0), voteRows(t, db))
	assert.Equal(t, 0, upvoteCount(t, db, product.ID))
}

func TestToggleCountsPerUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	product := createTestProduct(t, db, alice)
	svc := NewService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := svc.Toggle(ctx, identityFor(alice), product.ID)
	require.Nil(t, err)
	_, err = svc.Toggle(ctx, identityFor(bob), product.ID)
	require.Nil(t, err)
	assert.Equal(t, 2, upvoteCount(t, db, product.ID))

	action, err := svc.Toggle(ctx, identityFor(alice), product.ID)
	require.Nil(t, err)
	assert.Equal(t, ActionRemoved, action)
	assert.Equal(t, 1, upvoteCount(t, db, product.ID))

	mine, err := svc.Mine(ctx, identityFor(bob))
	require.Nil(t, err)
	assert.Equal(t, []string{product.ID}, mine)
}

func TestToggleRequiresIdentity(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "user@example.com")
	product := createTestProduct(t, db, owner)
	svc := NewService(db, zaptest.NewLogger(t))

	_, err := svc.Toggle(context.Background(), auth.Identity{}, product.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Status)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, int64(0), voteRows(t, db))
	assert.Equal(t, 0, upvoteCount(t, db, product.ID))
}

func TestToggleUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")
	svc := NewService(db, zaptest.NewLogger(t))

	_, err := svc.Toggle(context.Background(), identityFor(user), "does-not-exist")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, int64(0), voteRows(t, db))
}

func TestToggleWriteFailure(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")
	product := createTestProduct(t, db, user)
	svc := NewService(db, zaptest.NewLogger(t))
	require.NoError(t, db.Migrator().DropTable(&models.Upvote{}))

	_, err := svc.Toggle(context.Background(), identityFor(user), product.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, ErrVoteWriteFailed)
	assert.Equal(t, 0, upvoteCount(t, db, product.ID), "failed toggle leaves the counter alone")
}

func TestReconcileCounts(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	drifted := createTestProduct(t, db, alice)
	accurate := createTestProduct(t, db, alice)

	require.NoError(t, db.Create(&models.Upvote{ProductID: drifted.ID, UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Upvote{ProductID: drifted.ID, UserID: bob.ID}).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", drifted.ID).UpdateColumn("upvote_count", 7).Error)

	fixed, err := ReconcileCounts(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fixed)
	assert.Equal(t, 2, upvoteCount(t, db, drifted.ID))
	assert.Equal(t, 0, upvoteCount(t, db, accurate.ID))

	fixed, err = ReconcileCounts(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fixed)
}

func setupTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	r := gin.New()
	api := r.Group("/api", apikeys.OptionalAuthMiddleware(db, logger))
	NewHandler(NewService(db, logger)).RegisterRoutes(api)
	return r
}

func doRequest(r http.Handler, method, path string, user *models.User) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if user != nil {
		token, _ := auth.GenerateToken(user.ID, user.Email, string(user.SystemRole))
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestToggleHandler(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com")
	product := createTestProduct(t, db, user)
	router := setupTestRouter(t, db)

	resp := doRequest(router, "POST", "/api/products/"+product.ID+"/upvote", &user)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var toggled ToggleResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &toggled))
	assert.Equal(t, ActionAdded, toggled.Action)
	assert.Equal(t, http.StatusOK, toggled.Status)

	resp = doRequest(router, "GET", "/api/upvotes", &user)
	require.Equal(t, http.StatusOK, resp.Code)
	var mine MineResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &mine))
	assert.Equal(t, []string{product.ID}, mine.ProductIDs)

	resp = doRequest(router, "POST", "/api/products/"+product.ID+"/upvote", &user)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &toggled))
	assert.Equal(t, ActionRemoved, toggled.Action)
}

func TestToggleHandlerUnauthenticated(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "user@example.com")
	product := createTestProduct(t, db, owner)
	router := setupTestRouter(t, db)

	resp := doRequest(router, "POST", "/api/products/"+product.ID+"/upvote", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Authentication required", body["error"])
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.Equal(t, int64(0), voteRows(t, db))

	resp = doRequest(router, "GET", "/api/upvotes", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
