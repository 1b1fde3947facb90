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

	"github.com/lepaiper/pos/internal/client/domain"
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

	if err := db.AutoMigrate(&domain.Client{}, &saledomain.Sale{}, &saledomain.SaleItem{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newClient(name string, joined time.Time) *domain.Client {
	return &domain.Client{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    "cliente@example.com",
		Phone:    "11 99999-0000",
		JoinDate: joined,
	}
}

func TestClientCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	client := newClient("Ana Souza", time.Now())
	require.NoError(t, repo.Create(client))

	found, err := repo.FindByID(client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", found.Name)
	assert.Zero(t, found.TotalSpent)
	assert.Zero(t, found.TotalOrders)

	_, err = repo.FindByID(uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientFindAll_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	older := newClient("Antiga", time.Now().Add(-48*time.Hour))
	newer := newClient("Recente", time.Now())
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	clients, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Recente", clients[0].Name)
}

func TestCountJoinedSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	require.NoError(t, repo.Create(newClient("Veterana", time.Now().Add(-60*24*time.Hour))))
	require.NoError(t, repo.Create(newClient("Nova", time.Now().Add(-2*24*time.Hour))))

	count, err := repo.CountJoinedSince(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestClientUpdate_PartialFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	client := newClient("Carlos Lima", time.Now())
	require.NoError(t, repo.Create(client))

	phone := "11 98888-7777"
	updated, err := repo.Update(client.ID, domain.ClientUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Carlos Lima", updated.Name)
}

func TestClientDelete_FlagsSales(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	client := newClient("Paula Reis", time.Now())
	require.NoError(t, repo.Create(client))

	sale := &saledomain.Sale{
		ID:            uuid.NewString(),
		Total:         80.00,
		PaymentMethod: saledomain.PaymentCard,
		ClientID:      &client.ID,
		ClientName:    client.Name,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, db.Create(sale).Error)

	require.NoError(t, repo.Delete(client.ID))

	_, err := repo.FindByID(client.ID)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	var flagged saledomain.Sale
	require.NoError(t, db.First(&flagged, "id = ?", sale.ID).Error)
	assert.True(t, flagged.ClientDeleted)
	assert.Equal(t, "Paula Reis", flagged.ClientName)
}

func TestClientDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	err := repo.Delete(uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}
