package services

import (
	"errors"
	"testing"

	"fanlink-backend/apperrors"
	"fanlink-backend/models"
	"fanlink-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeClassifier struct {
	enabled bool
	safe    bool
	err     error
}

func (f *fakeClassifier) Enabled() bool { return f.enabled }

func (f *fakeClassifier) Classify(caption, mediaURL string) (bool, error) {
	return f.safe, f.err
}

func expectPendingPost(mock sqlmock.Sqlmock, id string) {
	rows := mock.NewRows([]string{"id", "creator_id", "caption", "status"}).
		AddRow(id, "creator-uuid-1", "Awaiting review", "pending")
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WillReturnRows(rows)
}

func expectStatusUpdate(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func expectLogInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "moderation_log" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("log-uuid-1"))
	mock.ExpectCommit()
}

func TestApprovePost_WritesStatusAndOneLogEntry(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPendingPost(mock, "post-uuid-1")
	expectStatusUpdate(mock)
	expectLogInsert(mock)

	svc := NewModerationService(gormDB, nil, false)
	post, err := svc.ApprovePost("post-uuid-1", "admin-uuid-1")

	assert.NoError(t, err)
	assert.Equal(t, models.PostApproved, post.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovePost_AlreadyModerated(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "creator_id", "caption", "status"}).
		AddRow("post-uuid-2", "creator-uuid-1", "Already live", "approved")
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WillReturnRows(rows)

	svc := NewModerationService(gormDB, nil, false)
	_, err := svc.ApprovePost("post-uuid-2", "admin-uuid-1")

	assert.ErrorIs(t, err, apperrors.ErrAlreadyModerated)
}

func TestApprovePost_ScheduledIsNotModeratable(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "creator_id", "caption", "status"}).
		AddRow("post-uuid-3", "creator-uuid-1", "Later", "scheduled")
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WillReturnRows(rows)

	svc := NewModerationService(gormDB, nil, false)
	_, err := svc.ApprovePost("post-uuid-3", "admin-uuid-1")

	assert.ErrorIs(t, err, apperrors.ErrPostNotPending)
}

func TestRejectPost_WithReason(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPendingPost(mock, "post-uuid-4")
	expectStatusUpdate(mock)
	expectLogInsert(mock)

	svc := NewModerationService(gormDB, nil, false)
	post, err := svc.RejectPost("post-uuid-4", "admin-uuid-1", "Spam")

	assert.NoError(t, err)
	assert.Equal(t, models.PostRejected, post.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectPost_ReasonRequiredByPolicy(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	svc := NewModerationService(gormDB, nil, true)
	_, err := svc.RejectPost("post-uuid-5", "admin-uuid-1", "")

	assert.ErrorIs(t, err, apperrors.ErrReasonRequired)
}

func TestAutoModerate_SafeVerdictApproves(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPendingPost(mock, "post-uuid-6")
	expectStatusUpdate(mock)
	expectLogInsert(mock)

	svc := NewModerationService(gormDB, &fakeClassifier{enabled: true, safe: true}, false)
	err := svc.AutoModerate("post-uuid-6")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoModerate_UnsafeVerdictLeavesPending(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPendingPost(mock, "post-uuid-7")

	svc := NewModerationService(gormDB, &fakeClassifier{enabled: true, safe: false}, false)
	err := svc.AutoModerate("post-uuid-7")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoModerate_ClassifierErrorLeavesPending(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPendingPost(mock, "post-uuid-8")

	classifier := &fakeClassifier{enabled: true, err: errors.New("timeout")}
	svc := NewModerationService(gormDB, classifier, false)
	err := svc.AutoModerate("post-uuid-8")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoModerate_NoClassifierLeavesPending(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPendingPost(mock, "post-uuid-9")

	svc := NewModerationService(gormDB, nil, false)
	err := svc.AutoModerate("post-uuid-9")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCreator_GrantsBadgeAndLogs(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "verification"}).
		AddRow("creator-uuid-1", "profile-uuid-1", "Alice", "PENDING")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE id = \$1`).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "creator_accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectLogInsert(mock)

	svc := NewModerationService(gormDB, nil, false)
	account, err := svc.VerifyCreator("creator-uuid-1", "admin-uuid-1")

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, account.Verification)
	assert.NotNil(t, account.VerifiedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCreator_NotPending(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "verification"}).
		AddRow("creator-uuid-2", "profile-uuid-2", "Bob", "UNVERIFIED")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE id = \$1`).
		WillReturnRows(rows)

	svc := NewModerationService(gormDB, nil, false)
	_, err := svc.VerifyCreator("creator-uuid-2", "admin-uuid-1")

	assert.ErrorIs(t, err, apperrors.ErrVerificationNotPending)
}

func TestRejectVerification_ResetsToUnverified(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "display_name", "verification", "id_document_url"}).
		AddRow("creator-uuid-3", "profile-uuid-3", "Carol", "PENDING", "https://cdn.example.com/id.jpg")
	mock.ExpectQuery(`SELECT \* FROM "creator_accounts" WHERE id = \$1`).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "creator_accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectLogInsert(mock)

	svc := NewModerationService(gormDB, nil, false)
	account, err := svc.RejectVerification("creator-uuid-3", "admin-uuid-1", "Document unreadable")

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationUnverified, account.Verification)
	assert.Empty(t, account.IDDocumentURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingPosts_OldestFirst(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "creator_id", "caption", "status"}).
		AddRow("post-uuid-old", "creator-uuid-1", "First in", "pending").
		AddRow("post-uuid-new", "creator-uuid-2", "Second in", "pending")
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE status = \$1 ORDER BY created_at ASC`).
		WillReturnRows(rows)

	svc := NewModerationService(gormDB, nil, false)
	posts, err := svc.PendingPosts(20, 0)

	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "post-uuid-old", posts[0].ID)
}

func TestPendingPosts_DatabaseError(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnError(gorm.ErrInvalidDB)

	svc := NewModerationService(gormDB, nil, false)
	_, err := svc.PendingPosts(20, 0)

	assert.Error(t, err)
}
