package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	clientdomain "github.com/lepaiper/pos/internal/client/domain"
	"github.com/lepaiper/pos/internal/sale/domain"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database stable across
	// transactions.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&catalogdomain.Product{},
		&clientdomain.Client{},
		&domain.Sale{},
		&domain.SaleItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createProduct(t *testing.T, db *gorm.DB, price float64, stock int) *catalogdomain.Product {
	t.Helper()
	product := &catalogdomain.Product{
		ID:       uuid.NewString(),
		Name:     "Caderno Kraft A5",
		Category: "Cadernos",
		Price:    price,
		Cost:     price / 2,
		Stock:    stock,
		MinStock: 2,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createClient(t *testing.T, db *gorm.DB, name string) *clientdomain.Client {
	t.Helper()
	client := &clientdomain.Client{
		ID:       uuid.NewString(),
		Name:     name,
		JoinDate: time.Now(),
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func TestCommit_WalkInSale(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 10.00, 8)

	sale, err := repo.Commit(context.Background(), domain.CommitRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 2, Price: 10.00},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 20.00, sale.Total)
	assert.Nil(t, sale.ClientID)
	assert.Empty(t, sale.ClientName)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, product.Name, sale.Items[0].ProductName)

	var updated catalogdomain.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 6, updated.Stock)

	// Walk-in sales touch no client row
	var clientCount int64
	require.NoError(t, db.Model(&clientdomain.Client{}).Count(&clientCount).Error)
	assert.Zero(t, clientCount)
}

func TestCommit_ServerPriceWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 45.90, 10)

	// The request claims a tampered price of 0.01
	sale, err := repo.Commit(context.Background(), domain.CommitRequest{
		PaymentMethod: domain.PaymentPix,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 3, Price: 0.01},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 45.90, sale.Items[0].Price)
	assert.Equal(t, 137.70, sale.Total)
}

func TestCommit_TotalRounding(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)

	// 3 * 19.99 accumulates binary noise (59.96999...); the stored total
	// must come out at exactly two decimals
	a := createProduct(t, db, 19.99, 5)

	sale, err := repo.Commit(context.Background(), domain.CommitRequest{
		PaymentMethod: domain.PaymentCard,
		Items: []domain.LineItem{
			{ProductID: a.ID, Quantity: 3, Price: 19.99},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 59.97, sale.Total, 0.0001)
}

func TestCommit_InsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 10.00, 5)

	request := domain.CommitRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 3, Price: 10.00},
		},
	}

	// First checkout of 3 wins the remaining stock race
	_, err := repo.Commit(context.Background(), request)
	require.NoError(t, err)

	// Second checkout of 3 only finds 2 left
	_, err = repo.Commit(context.Background(), request)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var updated catalogdomain.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 2, updated.Stock)

	var saleCount int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&saleCount).Error)
	assert.Equal(t, int64(1), saleCount)
}

func TestCommit_InsufficientStockRetryIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 10.00, 1)

	request := domain.CommitRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 2, Price: 10.00},
		},
	}

	for i := 0; i < 3; i++ {
		_, err := repo.Commit(context.Background(), request)
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
	}

	var updated catalogdomain.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 1, updated.Stock)

	var saleCount int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)
}

func TestCommit_ProductNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)

	_, err := repo.Commit(context.Background(), domain.CommitRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: uuid.NewString(), Quantity: 1, Price: 5.00},
		},
	})
	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)

	var saleCount int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)
}

func TestCommit_SoftDeletedProductNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 10.00, 5)
	require.NoError(t, db.Delete(&catalogdomain.Product{}, "id = ?", product.ID).Error)

	_, err := repo.Commit(context.Background(), domain.CommitRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 1, Price: 10.00},
		},
	})
	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestCommit_AtomicRollback(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	first := createProduct(t, db, 10.00, 10)
	second := createProduct(t, db, 20.00, 1)

	// The second line fails, so the first line's reservation must not survive
	_, err := repo.Commit(context.Background(), domain.CommitRequest{
		PaymentMethod: domain.PaymentCard,
		Items: []domain.LineItem{
			{ProductID: first.ID, Quantity: 4, Price: 10.00},
			{ProductID: second.ID, Quantity: 5, Price: 20.00},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var a, b catalogdomain.Product
	require.NoError(t, db.First(&a, "id = ?", first.ID).Error)
	require.NoError(t, db.First(&b, "id = ?", second.ID).Error)
	assert.Equal(t, 10, a.Stock)
	assert.Equal(t, 1, b.Stock)

	var saleCount, itemCount int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&saleCount).Error)
	require.NoError(t, db.Model(&domain.SaleItem{}).Count(&itemCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, itemCount)
}

func TestCommit_LoyaltyAggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 25.00, 20)
	client := createClient(t, db, "Maria Silva")

	totals := []int{2, 3}
	var expected float64
	for _, qty := range totals {
		sale, err := repo.Commit(context.Background(), domain.CommitRequest{
			ClientID:      &client.ID,
			PaymentMethod: domain.PaymentPix,
			Items: []domain.LineItem{
				{ProductID: product.ID, Quantity: qty, Price: 25.00},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, client.Name, sale.ClientName)
		expected += sale.Total
	}

	var updated clientdomain.Client
	require.NoError(t, db.First(&updated, "id = ?", client.ID).Error)
	assert.Equal(t, expected, updated.TotalSpent)
	assert.Equal(t, 2, updated.TotalOrders)
	require.NotNil(t, updated.LastPurchase)
}

func TestCommit_ClientNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 10.00, 5)
	missing := uuid.NewString()

	_, err := repo.Commit(context.Background(), domain.CommitRequest{
		ClientID:      &missing,
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 1, Price: 10.00},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, clientdomain.ErrClientNotFound))

	// Failed lookup rolls back the stock reservation
	var updated catalogdomain.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 5, updated.Stock)
}

func TestCommit_NoOversellUnderRepeatedContention(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 10.00, 7)

	request := domain.CommitRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.LineItem{
			{ProductID: product.ID, Quantity: 2, Price: 10.00},
		},
	}

	var committed int
	for i := 0; i < 10; i++ {
		if _, err := repo.Commit(context.Background(), request); err == nil {
			committed++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}

	// 7 units allow exactly 3 commits of 2; stock must end at 1, never below 0
	assert.Equal(t, 3, committed)
	var updated catalogdomain.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 1, updated.Stock)
}

func TestFindRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	product := createProduct(t, db, 5.00, 100)

	for i := 0; i < 3; i++ {
		sale := &domain.Sale{
			ID:            uuid.NewString(),
			Total:         5.00,
			PaymentMethod: domain.PaymentCash,
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(sale).Error)
		require.NoError(t, db.Create(&domain.SaleItem{
			ID:        uuid.NewString(),
			SaleID:    sale.ID,
			ProductID: product.ID,
			Quantity:  1,
			Price:     5.00,
		}).Error)
	}

	sales, err := repo.FindRecent(2)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.True(t, sales[0].CreatedAt.After(sales[1].CreatedAt))
	require.Len(t, sales[0].Items, 1)
}
