package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"auth_backend/internal/feature/auth/adapters"
	"auth_backend/internal/feature/auth/domain/entity"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/chaotichash"
	platformhandler "auth_backend/internal/platform/http/handler"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupServer wires the real stack on top of an in-memory sqlite database.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.User{}))

	logger, _ := test.NewNullLogger()
	uc := usecase.NewAuthUsecase(adapters.NewUserGorm(db), chaotichash.New(), logger)
	authH := authhandler.NewAuthHandler(uc, logger)
	health := platformhandler.NewHealthHandler(logger)

	return NewRouter(authH, health, logger), db
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	r, db := setupServer(t)

	w := postJSON(r, "/register", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]string{"username": "alice", "message": "User registered successfully"}, decode(t, w))

	var stored entity.User
	require.NoError(t, db.Where("username = ?", "alice").First(&stored).Error)
	assert.Equal(t, "a7aaf6026164896616164fb3aa97394153238373f574de6d0c15d4466ce7db0e", stored.PasswordHash)

	w = postJSON(r, "/login", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"username": "alice", "message": "Login successful"}, decode(t, w))

	wrong := postJSON(r, "/login", gin.H{"username": "alice", "password": "wrongpass"})
	unknown := postJSON(r, "/login", gin.H{"username": "bob", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, map[string]string{"detail": "Invalid credentials"}, decode(t, wrong))
}

func TestRouter_RegisterDuplicate(t *testing.T) {
	t.Parallel()

	r, db := setupServer(t)

	require.Equal(t, http.StatusCreated, postJSON(r, "/register", gin.H{"username": "alice", "password": "secret123"}).Code)

	w := postJSON(r, "/register", gin.H{"username": "alice", "password": "other"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, map[string]string{"detail": "Username already registered"}, decode(t, w))

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The original password still works.
	assert.Equal(t, http.StatusOK, postJSON(r, "/login", gin.H{"username": "alice", "password": "secret123"}).Code)
}

func TestRouter_ConcurrentRegister(t *testing.T) {
	t.Parallel()

	r, db := setupServer(t)

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = postJSON(r, "/register", gin.H{"username": "carol", "password": "pw"}).Code
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRouter_InvalidBody(t *testing.T) {
	t.Parallel()

	r, _ := setupServer(t)

	for _, path := range []string{"/register", "/login"} {
		w := postJSON(r, path, gin.H{"username": "alice"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
	}
}

func TestRouter_EmptyPassword(t *testing.T) {
	t.Parallel()

	r, db := setupServer(t)

	w := postJSON(r, "/register", gin.H{"username": "alice", "password": ""})
	require.Equal(t, http.StatusCreated, w.Code)

	var stored entity.User
	require.NoError(t, db.Where("username = ?", "alice").First(&stored).Error)
	assert.Equal(t, "f006c4915bce75dd9588871a11328f1acac2cba2af8b786e66f70b6301469193", stored.PasswordHash)

	assert.Equal(t, http.StatusOK, postJSON(r, "/login", gin.H{"username": "alice", "password": ""}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/login", gin.H{"username": "alice", "password": "x"}).Code)
}

func TestRouter_EmptyUsername(t *testing.T) {
	t.Parallel()

	r, _ := setupServer(t)

	w := postJSON(r, "/register", gin.H{"username": "", "password": "x"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]string{"username": "", "message": "User registered successfully"}, decode(t, w))

	assert.Equal(t, http.StatusOK, postJSON(r, "/login", gin.H{"username": "", "password": "x"}).Code)
}

func TestRouter_UsernameLength(t *testing.T) {
	t.Parallel()

	r, db := setupServer(t)

	w := postJSON(r, "/register", gin.H{"username": strings.Repeat("a", 256), "password": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Length is counted in characters, as varchar(255) does.
	multibyte := strings.Repeat("ä", 255)
	assert.Equal(t, http.StatusCreated, postJSON(r, "/register", gin.H{"username": multibyte, "password": "x"}).Code)
	assert.Equal(t, http.StatusOK, postJSON(r, "/login", gin.H{"username": multibyte, "password": "x"}).Code)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	r, _ := setupServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	r, _ := setupServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
