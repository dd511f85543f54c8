package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"kindred/internal/cache"
	"kindred/internal/config"
	"kindred/internal/models"
	"kindred/internal/repository"
	"kindred/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestLivenessCheck(t *testing.T) {
	t.Parallel()

	db, _ := setupMockDB(t)
	s := &Server{db: db, cache: cache.NewServiceWithClient(nil)}

	app := fiber.New()
	app.Get("/health/live", s.LivenessCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessCheckWithoutRedis(t *testing.T) {
	t.Parallel()

	db, _ := setupMockDB(t)
	s := &Server{db: db, cache: cache.NewServiceWithClient(nil)}

	app := fiber.New()
	app.Get("/health/ready", s.ReadinessCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// The database answers and Redis degrades to pass-through, so the service
	// is still ready.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetFriendsStoreFailure(t *testing.T) {
	t.Parallel()

	db, mock := setupMockDB(t)
	cacheSvc := cache.NewServiceWithClient(nil)
	friendshipRepo := repository.NewFriendshipRepository(db)

	s := &Server{
		config:            &config.Config{JWTSecret: "test-secret"},
		db:                db,
		cache:             cacheSvc,
		friendshipService: service.NewFriendshipService(friendshipRepo, cacheSvc),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "friendships" WHERE user1_id = $1 OR user2_id = $2`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection refused"))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/api/friends", s.GetFriends)

	resp, body := doJSON(t, app, http.MethodGet, "/api/friends", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternalError, errorCode(t, body))
}
