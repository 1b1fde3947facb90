package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lepaiper/pos/internal/catalog/domain"
	saledomain "github.com/lepaiper/pos/internal/sale/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Product{}, &saledomain.Sale{}, &saledomain.SaleItem{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newProduct(name string, stock, minStock int) *domain.Product {
	return &domain.Product{
		ID:       uuid.NewString(),
		Name:     name,
		Category: "Cadernos",
		Price:    35.00,
		Cost:     14.00,
		Stock:    stock,
		MinStock: minStock,
	}
}

func TestProductCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	product := newProduct("Caderno Pautado", 12, 3)
	require.NoError(t, repo.Create(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caderno Pautado", found.Name)
	assert.Equal(t, 12, found.Stock)

	_, err = repo.FindByID(uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	product := newProduct("Planner Semanal", 10, 2)
	require.NoError(t, repo.Create(product))

	newPrice := 42.90
	newStock := 7
	updated, err := repo.Update(product.ID, domain.ProductUpdate{
		Price: &newPrice,
		Stock: &newStock,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.90, updated.Price)
	assert.Equal(t, 7, updated.Stock)
	// Untouched fields keep their values
	assert.Equal(t, "Planner Semanal", updated.Name)
	assert.Equal(t, 14.00, updated.Cost)
}

func TestProductUpdate_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	name := "Novo Nome"
	_, err := repo.Update(uuid.NewString(), domain.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUpdate_EmptyPatchReturnsCurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	product := newProduct("Bloco de Notas", 5, 1)
	require.NoError(t, repo.Create(product))

	updated, err := repo.Update(product.ID, domain.ProductUpdate{})
	require.NoError(t, err)
	assert.Equal(t, product.Name, updated.Name)
}

func TestFindLowStock_OrderAndThreshold(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	require.NoError(t, repo.Create(newProduct("Quase esgotado", 1, 5)))
	require.NoError(t, repo.Create(newProduct("No limite", 3, 3)))
	require.NoError(t, repo.Create(newProduct("Abastecido", 50, 5)))

	low, err := repo.FindLowStock(10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Quase esgotado", low[0].Name)
	assert.Equal(t, "No limite", low[1].Name)
}

func TestProductDelete_MarksSaleItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	product := newProduct("Caderno Descontinuado", 4, 1)
	require.NoError(t, repo.Create(product))

	sale := &saledomain.Sale{
		ID:            uuid.NewString(),
		Total:         35.00,
		PaymentMethod: saledomain.PaymentCash,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, db.Create(sale).Error)
	item := &saledomain.SaleItem{
		ID:          uuid.NewString(),
		SaleID:      sale.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    1,
		Price:       35.00,
	}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	var marked saledomain.SaleItem
	require.NoError(t, db.First(&marked, "id = ?", item.ID).Error)
	assert.True(t, marked.ProductDeleted)
	// The frozen name survives deletion
	assert.Equal(t, "Caderno Descontinuado", marked.ProductName)
}

func TestProductDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	err := repo.Delete(uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
