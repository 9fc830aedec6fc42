package models

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newStatsDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func expectCustomerRow(mock sqlmock.Sqlmock, lastLogin time.Time) {
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "email", "total_spent", "visit_count", "last_login", "visits"}).
			AddRow(1, "Ada", "ada@example.com", 50.0, 0, lastLogin, []byte("[]")))
}

func TestRecalculateCustomerStatsSumsOrderHistory(t *testing.T) {
	// TotalSpent always comes from the current order set, never from the
	// previously stored value
	tests := []struct {
		name string
		sum  float64
	}{
		{"orders of 50 and 70", 120},
		{"one order left after a delete", 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb, mock := newStatsDB(t)
			now := time.Now()

			mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM "orders"`).
				WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(tt.sum))
			expectCustomerRow(mock, now.AddDate(0, 0, -12))
			mock.ExpectExec(`UPDATE "customers" SET`).
				WillReturnResult(sqlmock.NewResult(0, 1))

			customer, err := RecalculateCustomerStats(gdb, 1, now)
			require.NoError(t, err)

			assert.Equal(t, tt.sum, customer.TotalSpent)
			assert.Equal(t, 12, customer.InactiveDays)
			assert.Equal(t, 1, customer.VisitCount)
			assert.Equal(t, now, customer.LastLogin)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecalculateCustomerStatsMissingCustomer(t *testing.T) {
	gdb, mock := newStatsDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(120.0))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := RecalculateCustomerStats(gdb, 1, time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
