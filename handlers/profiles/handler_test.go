package profiles

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"fanlink-backend/models"
	"fanlink-backend/services"
	"fanlink-backend/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func asMember(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("subject_id", "auth-sub-1")
		c.Set("email", "alice@example.com")
		c.Set("username", "alice")
		handler(c)
	}
}

func TestGetMe_ExistingProfile(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	createdAt := time.Now()
	rows := mock.NewRows([]string{"id", "auth_id", "email", "username", "full_name", "role", "created_at", "updated_at"}).
		AddRow("profile-uuid-1", "auth-sub-1", "alice@example.com", "alice", "Alice", "MEMBER", createdAt, createdAt)
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE auth_id = \$1`).
		WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.GET("/profiles/me", asMember(New(services.NewIdentityService(gormDB)).GetMe))

	req, _ := http.NewRequest(http.MethodGet, "/profiles/me", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var profile models.Profile
	json.Unmarshal(resp.Body.Bytes(), &profile)
	assert.Equal(t, "profile-uuid-1", profile.ID)
	assert.Equal(t, "alice", profile.Username)
}

func TestGetMe_ProvisionsOnFirstRequest(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE auth_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "profiles" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("profile-uuid-new"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.GET("/profiles/me", asMember(New(services.NewIdentityService(gormDB)).GetMe))

	req, _ := http.NewRequest(http.MethodGet, "/profiles/me", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var profile models.Profile
	json.Unmarshal(resp.Body.Bytes(), &profile)
	assert.Equal(t, "profile-uuid-new", profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMe_Unauthenticated(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.GET("/profiles/me", New(services.NewIdentityService(gormDB)).GetMe)

	req, _ := http.NewRequest(http.MethodGet, "/profiles/me", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetProfile_InvalidID(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.GET("/profiles/:id", New(services.NewIdentityService(gormDB)).GetProfile)

	req, _ := http.NewRequest(http.MethodGet, "/profiles/not-a-uuid", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetAllProfiles_Success(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	createdAt := time.Now()
	rows := mock.NewRows([]string{"id", "auth_id", "email", "username", "role", "created_at"}).
		AddRow("profile-uuid-1", "auth-sub-1", "alice@example.com", "alice", "MEMBER", createdAt).
		AddRow("profile-uuid-2", "auth-sub-2", "bob@example.com", "bob", "ADMIN", createdAt.Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "profiles" ORDER BY created_at DESC`).
		WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.GET("/profiles", New(services.NewIdentityService(gormDB)).GetAllProfiles)

	req, _ := http.NewRequest(http.MethodGet, "/profiles", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string][]models.Profile
	json.Unmarshal(resp.Body.Bytes(), &response)

	profiles := response["users"]
	assert.Len(t, profiles, 2)
	assert.Equal(t, "alice@example.com", profiles[0].Email)
	assert.Equal(t, "bob@example.com", profiles[1].Email)
}
