package services

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"
	"fanlink-backend/testutils"

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

func TestEnsureProfile_ExistingProfile(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	createdAt := time.Now()
	rows := mock.NewRows([]string{"id", "auth_id", "email", "username", "full_name", "role", "created_at", "updated_at"}).
		AddRow("profile-uuid-1", "auth-sub-1", "alice@example.com", "alice", "Alice", "MEMBER", createdAt, createdAt)

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE auth_id = \$1`).
		WillReturnRows(rows)

	svc := NewIdentityService(gormDB)
	profile, err := svc.EnsureProfile(Principal{SubjectID: "auth-sub-1", Email: "alice@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "profile-uuid-1", profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureProfile_CreatesOnFirstUse(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE auth_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "profiles" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("profile-uuid-new"))
	mock.ExpectCommit()

	svc := NewIdentityService(gormDB)
	profile, err := svc.EnsureProfile(Principal{SubjectID: "auth-sub-2", Email: "bob@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "profile-uuid-new", profile.ID)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, models.MemberRole, profile.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureProfile_LostProvisioningRace(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE auth_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "profiles" (.+) RETURNING "id"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	winner := mock.NewRows([]string{"id", "auth_id", "email", "username", "role"}).
		AddRow("profile-uuid-winner", "auth-sub-3", "carol@example.com", "carol", "MEMBER")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE auth_id = \$1`).
		WillReturnRows(winner)

	svc := NewIdentityService(gormDB)
	profile, err := svc.EnsureProfile(Principal{SubjectID: "auth-sub-3", Email: "carol@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "profile-uuid-winner", profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureProfile_UnresolvableIdentity(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	svc := NewIdentityService(gormDB)

	_, err := svc.EnsureProfile(Principal{SubjectID: "", Email: "nobody@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrIdentityUnresolvable)

	_, err = svc.EnsureProfile(Principal{SubjectID: "auth-sub-4", Email: ""})
	assert.ErrorIs(t, err, apperrors.ErrIdentityUnresolvable)
}

func TestGetProfile_NotFound(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	svc := NewIdentityService(gormDB)
	_, err := svc.GetProfile("profile-uuid-missing")

	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}
