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

func TestSendMessage_ReceiverMustExist(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	svc := NewMessagingService(gormDB)
	_, err := svc.SendMessage("profile-uuid-sender", models.PrivateMessageCreate{
		ReceiverID: "profile-uuid-missing",
		Content:    "Hello",
	})

	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestSendMessage_Success(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	receiverRows := mock.NewRows([]string{"id", "username", "email"}).
		AddRow("profile-uuid-receiver", "bob", "bob@example.com")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnRows(receiverRows)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "private_messages" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("message-uuid-1"))
	mock.ExpectCommit()

	svc := NewMessagingService(gormDB)
	message, err := svc.SendMessage("profile-uuid-sender", models.PrivateMessageCreate{
		ReceiverID: "profile-uuid-receiver",
		Content:    "Hello",
	})

	assert.NoError(t, err)
	assert.Equal(t, "message-uuid-1", message.ID)
	assert.Equal(t, "UNREAD", message.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkMessageRead_OnlyReceiver(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "status"}).
		AddRow("message-uuid-1", "profile-uuid-sender", "profile-uuid-receiver", "Hello", "UNREAD")
	mock.ExpectQuery(`SELECT \* FROM "private_messages" WHERE id = \$1`).
		WillReturnRows(rows)

	svc := NewMessagingService(gormDB)
	err := svc.MarkMessageRead("message-uuid-1", "profile-uuid-sender")

	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
}

func TestMarkMessageRead_MissingMessage(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "private_messages" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	svc := NewMessagingService(gormDB)
	err := svc.MarkMessageRead("message-uuid-missing", "profile-uuid-receiver")

	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestMarkNotificationRead_OnlyOwner(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "type", "title", "is_read"}).
		AddRow("notif-uuid-1", "profile-uuid-owner", "subscription", "New Subscriber!", false)
	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1`).
		WillReturnRows(rows)

	svc := NewMessagingService(gormDB)
	err := svc.MarkNotificationRead("notif-uuid-1", "profile-uuid-other")

	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
}

func TestMarkNotificationRead_Success(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "profile_id", "type", "title", "is_read"}).
		AddRow("notif-uuid-1", "profile-uuid-owner", "subscription", "New Subscriber!", false)
	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1`).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewMessagingService(gormDB)
	err := svc.MarkNotificationRead("notif-uuid-1", "profile-uuid-owner")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
