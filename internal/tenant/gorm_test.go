package tenant

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type scopedRecord struct {
	Id       int64  `gorm:"primaryKey"`
	TenantId int64  `gorm:"column:tenant_id"`
	Body     string `gorm:"column:body"`
}

func (scopedRecord) TableName() string { return "scoped_record" }

func (n *scopedRecord) GetTenantId() int64   { return n.TenantId }
func (n *scopedRecord) SetTenantId(id int64) { n.TenantId = id }

type plainRecord struct {
	Id   int64  `gorm:"primaryKey"`
	Body string `gorm:"column:body"`
}

func (plainRecord) TableName() string { return "plain_record" }

func newMockedDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, RegisterCallbacks(db))

	return db, mock
}

func TestQueryFilteredByBoundTenant(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`SELECT \* FROM "scoped_record" WHERE "scoped_record"\."tenant_id" = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "body"}))

	ctx := WithTenant(context.Background(), 7)
	var records []scopedRecord
	require.NoError(t, db.WithContext(ctx).Find(&records).Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTechnicalTenantBypassesFilter(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`SELECT \* FROM "scoped_record"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "body"}))

	ctx := WithTenant(context.Background(), TechnicalTenantId)
	var records []scopedRecord
	require.NoError(t, db.WithContext(ctx).Find(&records).Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnboundContextSkipsFilter(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`SELECT \* FROM "scoped_record"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "body"}))

	var records []scopedRecord
	require.NoError(t, db.Find(&records).Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNonTenantModelNotFiltered(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectQuery(`SELECT \* FROM "plain_record"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body"}))

	ctx := WithTenant(context.Background(), 7)
	var records []plainRecord
	require.NoError(t, db.WithContext(ctx).Find(&records).Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStampsTenant(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "scoped_record"`).
		WithArgs(int64(7), "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	ctx := WithTenant(context.Background(), 7)
	record := &scopedRecord{Body: "hello"}
	require.NoError(t, db.WithContext(ctx).Create(record).Error)

	assert.Equal(t, int64(7), record.TenantId)
}

func TestCreateRejectsForeignTenant(t *testing.T) {
	db, _ := newMockedDB(t)

	ctx := WithTenant(context.Background(), 7)
	record := &scopedRecord{TenantId: 8, Body: "hello"}
	err := db.WithContext(ctx).Create(record).Error

	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrInvalidData)
}

func TestUpdateFilteredByBoundTenant(t *testing.T) {
	db, mock := newMockedDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "scoped_record" SET "body"=\$1 WHERE id = \$2 AND "scoped_record"\."tenant_id" = \$3`).
		WithArgs("updated", int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := WithTenant(context.Background(), 7)
	err := db.WithContext(ctx).
		Model(&scopedRecord{}).
		Where("id = ?", int64(1)).
		Update("body", "updated").Error
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
