package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"darkbin/internal/config"
	"darkbin/internal/database"
	"darkbin/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer wires a full Server against an in-memory SQLite database
// and returns it together with a routed Fiber app. No Redis: the cache and
// rate limits degrade to pass-through.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	t.Cleanup(func() {
		db.Exec("DELETE FROM likes")
		db.Exec("DELETE FROM comments")
		db.Exec("DELETE FROM pastes")
		db.Exec("DELETE FROM user_profiles")
		db.Exec("DELETE FROM users")
		sqlDB.Close()
	})

	cfg := &config.Config{
		Env:       "test",
		Port:      "8080",
		JWTSecret: "test-secret-key-for-handler-tests-only",
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app
	s.SetupRoutes(app)

	return s, app
}

// seedUser inserts an account with a known password ("Sup3r-Secret-Pass!")
// and returns it.
func seedUser(t *testing.T, s *Server, id, username string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r-Secret-Pass!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

// seedPaste inserts a paste row directly, bypassing the service defaults.
func seedPaste(t *testing.T, s *Server, p *models.Paste) *models.Paste {
	t.Helper()
	if p.Date == "" {
		p.Date = time.Now().UTC().Format(time.RFC3339)
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	require.NoError(t, s.db.Create(p).Error)
	return p
}

// bearerFor issues a real token for the user, exactly as the login endpoint
// would.
func bearerFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
