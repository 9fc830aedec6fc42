package controller

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"minicrm/models"
	"minicrm/segment"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testMembers() []segment.AudienceMember {
	return []segment.AudienceMember{
		{ID: 1, Name: "Ada", Email: "ada@example.com"},
		{ID: 2, Name: "Grace", Email: "grace@example.com"},
		{ID: 3, Name: "Edsger", Email: "edsger@example.com"},
	}
}

func TestBuildCommunicationLogs(t *testing.T) {
	members := testMembers()
	logs := buildCommunicationLogs(7, members)

	require.Len(t, logs, len(members))
	for i, entry := range logs {
		assert.Equal(t, uint(7), entry.CampaignID)
		assert.Equal(t, members[i].ID, entry.CustomerID)
		assert.Equal(t, members[i].Name, entry.CustomerName)
		assert.Equal(t, models.LogStatusPending, entry.Status)
	}
	assert.Equal(t, "Hi Ada, here's 10% off on your next order!", logs[0].Message)
}

func TestPersistCampaignCreatesLogPerMember(t *testing.T) {
	gdb, mock := newMockDB(t)
	cc := NewCampaignController(gdb, discardLogger(), nil)

	members := testMembers()
	campaign := &models.Campaign{
		UserID:       1,
		Name:         "Winback",
		Audience:     []uint{1, 2, 3},
		AudienceSize: len(members),
		Status:       models.CampaignStatusDraft,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "campaigns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "communication_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectCommit()

	require.NoError(t, cc.persistCampaign(campaign, members))
	assert.Equal(t, uint(7), campaign.ID)
	assert.Equal(t, len(members), campaign.AudienceSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersistCampaignRollsBackOnLogFailure(t *testing.T) {
	gdb, mock := newMockDB(t)
	cc := NewCampaignController(gdb, discardLogger(), nil)

	campaign := &models.Campaign{
		UserID:       1,
		Name:         "Winback",
		AudienceSize: 3,
		Status:       models.CampaignStatusDraft,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "campaigns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "communication_logs"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	require.Error(t, cc.persistCampaign(campaign, testMembers()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersistCampaignEmptyAudience(t *testing.T) {
	gdb, mock := newMockDB(t)
	cc := NewCampaignController(gdb, discardLogger(), nil)

	campaign := &models.Campaign{
		UserID: 1,
		Name:   "Nobody home",
		Status: models.CampaignStatusDraft,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "campaigns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectCommit()

	require.NoError(t, cc.persistCampaign(campaign, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
