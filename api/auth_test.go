package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Auth:   config.AuthConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

func userColumns() []string {
	return []string{"id", "username", "email", "password", "full_name", "created_at", "updated_at", "deleted_at"}
}

func TestAuthHandler_Register(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitAuth(cfg)
	defer func() { config.GlobalConfig = nil }()

	// username free
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser").
		WillReturnRows(sqlmock.NewRows(userColumns()))
	// email free
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	body := `{"username":"newuser","email":"new@example.com","password":"password123","full_name":"New User"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Registration successful", resp["message"])

	// session cookie starts right away
	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie not set")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_UsernameExists(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "taken", "taken@example.com", "hash", "", time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	body := `{"username":"taken","email":"other@example.com","password":"password123"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Username already exists", resp["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	body := `{"username":"newuser","email":"new@example.com","password":"123"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitAuth(cfg)
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("alice", "alice").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "alice@example.com", string(hashed), "Alice", time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	body := `{"username":"alice","password":"password123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Login successful", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
	_, hasPassword := data["password"]
	assert.False(t, hasPassword, "password must never appear in responses")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("alice", "alice").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "alice@example.com", string(hashed), "Alice", time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	body := `{"username":"alice","password":"wrong"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid username or password", resp["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nobody", "nobody").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	body := `{"username":"nobody","password":"any"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// same answer as a wrong password, so usernames cannot be probed
	assert.Equal(t, 401, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid username or password", resp["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout(t *testing.T) {
	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	router := gin.New()
	router.POST("/logout", NewAuthHandler(cfg).Logout)

	req := httptest.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	// the cookie is cleared
	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.Contains(setCookie, middleware.SessionCookieName+"="))
	assert.True(t, strings.Contains(setCookie, "Max-Age=0"))
}
