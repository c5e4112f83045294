package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "password123!"

var (
	testHashOnce sync.Once
	testHash     string
)

// testPasswordHash hashes the shared test password once; bcrypt at cost 12
// is too slow to run per fixture user.
func testPasswordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := HashPassword(testPassword)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		testHash = h
	})
	return testHash
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:          "0",
		Env:           "test",
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		UploadDir:     t.TempDir(),
		MaxFileSize:   1024 * 1024,
	}
}

func setupAPI(t *testing.T) (*API, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	api := NewAPI(db, testConfig(t))
	r := gin.New()
	SetupRoutes(r, api)
	return api, r
}

func createUser(t *testing.T, a *API, email, name, role string) *User {
	t.Helper()
	user := User{
		Email:    email,
		Password: testPasswordHash(t),
		Name:     name,
		Role:     role,
	}
	require.NoError(t, a.db.Create(&user).Error)
	return &user
}

func tokenFor(t *testing.T, a *API, u *User) string {
	t.Helper()
	access, err := a.generateToken(u, a.cfg.AccessSecret, a.cfg.AccessExpiry)
	require.NoError(t, err)
	return access
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// uploadFile posts a multipart submission with an explicit part MIME type.
func uploadFile(t *testing.T, r *gin.Engine, path, token, filename, mimeType string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// fixtureProject inserts a project directly, skipping the HTTP layer.
func fixtureProject(t *testing.T, a *API, buyer *User, status string, solver *User) *Project {
	t.Helper()
	p := Project{
		Title:       "Test Project",
		Description: "fixture",
		BuyerID:     buyer.ID,
		Status:      status,
	}
	if solver != nil {
		p.SolverID = &solver.ID
	}
	require.NoError(t, a.db.Create(&p).Error)
	return &p
}

func fixtureTask(t *testing.T, a *API, project *Project, orderIndex int, status string) *Task {
	t.Helper()
	task := Task{
		ProjectID:  project.ID,
		Title:      fmt.Sprintf("Task %d", orderIndex),
		OrderIndex: orderIndex,
		Status:     status,
	}
	require.NoError(t, a.db.Create(&task).Error)
	return &task
}

func reloadProject(t *testing.T, a *API, id uint) *Project {
	t.Helper()
	var p Project
	require.NoError(t, a.db.First(&p, id).Error)
	return &p
}

func reloadTask(t *testing.T, a *API, id uint) *Task {
	t.Helper()
	var task Task
	require.NoError(t, a.db.First(&task, id).Error)
	return &task
}
