package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

var orderColumns = []string{"id", "order_number", "user_id", "status", "subtotal", "shipping_cost", "tax", "total", "payment_method", "ship_pincode", "created_at", "updated_at"}

func TestCreate_WritesOrderAndItems(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "MB-20260101-ABC123",
		UserID:        "user-1",
		Status:        models.StatusPending,
		Subtotal:      450,
		ShippingCost:  50,
		Tax:           23,
		Total:         523,
		PaymentMethod: "cod",
		OrderItems: []models.OrderItem{
			{ProductID: "p-1", Name: "Kaju Katli", Price: 450, Quantity: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(order.ID.String()))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), order))
	assert.NotEqual(t, uuid.Nil, order.OrderItems[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_PreloadsItems(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(id.String(), "MB-1", "user-1", models.StatusConfirmed, 450.0, 50.0, 23.0, 523.0, "cod", "302001", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "price", "quantity"}).
			AddRow(uuid.NewString(), id.String(), "p-1", "Kaju Katli", 450.0, 1))

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, "302001", order.ShippingAddress.Pincode)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Kaju Katli", order.OrderItems[0].Name)
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	order, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Nil(t, order)
}

func TestFindByUserID_CountsAndPages(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders"`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(id.String(), "MB-2", "user-1", models.StatusPending, 100.0, 50.0, 5.0, 155.0, "upi", "110001", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "price", "quantity"}))

	orders, total, err := repo.FindByUserID(context.Background(), "user-1", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "MB-2", orders[0].OrderNumber)
}

func TestUpdateStatus(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.UpdateStatus(context.Background(), uuid.New(), models.StatusCancelled, models.StatusPending))
}

func TestUpdateStatus_Missing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), uuid.New(), models.StatusConfirmed, "")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
