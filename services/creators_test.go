package services

import (
	"testing"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"
	"fanlink-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEnsureCreatorAccount_Existing(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "monthly_price", "verification"}).
		AddRow("creator-uuid-1", "profile-uuid-1", "Alice", 500, "VERIFIED")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnRows(rows)

	svc := NewCreatorService(gormDB)
	account, err := svc.EnsureCreatorAccount("profile-uuid-1")

	assert.NoError(t, err)
	assert.Equal(t, "creator-uuid-1", account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCreatorAccount_CreatesDefault(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	profileRows := mock.NewRows([]string{"id", "username", "email"}).
		AddRow("profile-uuid-2", "bob", "bob@example.com")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnRows(profileRows)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "creator_accounts" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("creator-uuid-new"))
	mock.ExpectCommit()

	svc := NewCreatorService(gormDB)
	account, err := svc.EnsureCreatorAccount("profile-uuid-2")

	assert.NoError(t, err)
	assert.Equal(t, "creator-uuid-new", account.ID)
	assert.Equal(t, "bob", account.DisplayName)
	assert.Equal(t, 0, account.MonthlyPrice)
	assert.Equal(t, models.VerificationUnverified, account.Verification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCreatorAccount_ProfileMissing(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	svc := NewCreatorService(gormDB)
	_, err := svc.EnsureCreatorAccount("profile-uuid-missing")

	assert.ErrorIs(t, err, apperrors.ErrCreatorCreateFailed)
}

func TestEnsureCreatorAccount_LostProvisioningRace(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	profileRows := mock.NewRows([]string{"id", "username", "email"}).
		AddRow("profile-uuid-3", "carol", "carol@example.com")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnRows(profileRows)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "creator_accounts" (.+) RETURNING "id"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	winner := mock.NewRows([]string{"id", "profile_id", "display_name"}).
		AddRow("creator-uuid-winner", "profile-uuid-3", "carol")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnRows(winner)

	svc := NewCreatorService(gormDB)
	account, err := svc.EnsureCreatorAccount("profile-uuid-3")

	assert.NoError(t, err)
	assert.Equal(t, "creator-uuid-winner", account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCreator_NegativePrice(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "monthly_price", "verification"}).
		AddRow("creator-uuid-1", "profile-uuid-1", "Alice", 500, "VERIFIED")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnRows(rows)

	price := -100
	svc := NewCreatorService(gormDB)
	_, err := svc.UpdateCreator("profile-uuid-1", models.CreatorUpdate{MonthlyPrice: &price})

	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestRequestVerification_MovesToPending(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "verification"}).
		AddRow("creator-uuid-1", "profile-uuid-1", "Alice", "UNVERIFIED")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "creator_accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewCreatorService(gormDB)
	account, err := svc.RequestVerification("profile-uuid-1", "https://cdn.example.com/id.jpg")

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationPending, account.Verification)
	assert.Equal(t, "https://cdn.example.com/id.jpg", account.IDDocumentURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestVerification_AlreadyRequested(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "verification"}).
		AddRow("creator-uuid-1", "profile-uuid-1", "Alice", "PENDING")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE profile_id = \$1`).
		WillReturnRows(rows)

	svc := NewCreatorService(gormDB)
	_, err := svc.RequestVerification("profile-uuid-1", "https://cdn.example.com/id.jpg")

	assert.ErrorIs(t, err, apperrors.ErrVerificationRequested)
}

func TestGetCreator_NotFound(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	svc := NewCreatorService(gormDB)
	_, err := svc.GetCreator("creator-uuid-missing")

	assert.ErrorIs(t, err, apperrors.ErrCreatorNotFound)
}
