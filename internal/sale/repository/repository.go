package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	catalogdomain "github.com/lepaiper/pos/internal/catalog/domain"
	clientdomain "github.com/lepaiper/pos/internal/client/domain"
	"github.com/lepaiper/pos/internal/sale/domain"
)

var tracer = otel.Tracer("sale-repository")

// GormSaleRepository persists sales with GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Sale{}, &domain.SaleItem{})
}

// Commit converts a validated cart into a persisted sale as a single
// transaction: stock is reserved per item with a conditional decrement,
// line prices are read from the product rows, and client loyalty
// aggregates are incremented. Any failure rolls the whole unit back.
func (r *GormSaleRepository) Commit(ctx context.Context, req domain.CommitRequest) (*domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "sale.commit",
		trace.WithAttributes(
			attribute.Int("sale.item_count", len(req.Items)),
			attribute.String("sale.payment_method", req.PaymentMethod),
			attribute.Bool("sale.walk_in", req.ClientID == nil),
		),
	)
	defer span.End()

	var sale *domain.Sale
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := make([]domain.SaleItem, 0, len(req.Items))
		var total float64

		// Reserve stock and freeze the server-side price, in caller order.
		for _, line := range req.Items {
			if err := reserveStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			var product catalogdomain.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return catalogdomain.ErrProductNotFound
				}
				return fmt.Errorf("failed to load product: %w", err)
			}

			items = append(items, domain.SaleItem{
				ID:          uuid.NewString(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			})
			total += product.Price * float64(line.Quantity)
		}

		s := &domain.Sale{
			ID:            uuid.NewString(),
			Total:         domain.RoundCurrency(total),
			PaymentMethod: req.PaymentMethod,
			ClientID:      req.ClientID,
			CreatedAt:     now,
		}

		if req.ClientID != nil {
			var client clientdomain.Client
			if err := tx.First(&client, "id = ?", *req.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return clientdomain.ErrClientNotFound
				}
				return fmt.Errorf("failed to load client: %w", err)
			}
			s.ClientName = client.Name
		}

		if err := tx.Create(s).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		for i := range items {
			items[i].SaleID = s.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create sale items: %w", err)
		}
		s.Items = items

		if req.ClientID != nil {
			if err := updateLoyalty(tx, *req.ClientID, s.Total, now); err != nil {
				return err
			}
		}

		sale = s
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sale.id", sale.ID),
		attribute.Float64("sale.total", sale.Total),
	)
	return sale, nil
}

// reserveStock decrements a product's stock only when enough units remain.
// The guard in the WHERE clause is what closes the race between concurrent
// checkouts: the losing transaction sees zero rows affected.
func reserveStock(tx *gorm.DB, productID string, quantity int) error {
	res := tx.Model(&catalogdomain.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Zero rows means the product vanished or another sale consumed
		// the remaining units. Distinguish the two for the caller.
		var count int64
		if err := tx.Model(&catalogdomain.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product: %w", err)
		}
		if count == 0 {
			return catalogdomain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// updateLoyalty increments the client's spend and order aggregates
func updateLoyalty(tx *gorm.DB, clientID string, total float64, purchasedAt time.Time) error {
	res := tx.Model(&clientdomain.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{
			"total_spent":   gorm.Expr("total_spent + ?", total),
			"total_orders":  gorm.Expr("total_orders + 1"),
			"last_purchase": purchasedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update client stats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return clientdomain.ErrClientNotFound
	}
	return nil
}

// FindRecent returns the latest sales with their items, newest first
func (r *GormSaleRepository) FindRecent(limit int) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Find(&sales).Error
	return sales, err
}

// FindSince returns all sales created at or after the given time, oldest first
func (r *GormSaleRepository) FindSince(since time.Time) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.Preload("Items").Where("created_at >= ?", since).Order("created_at ASC").Find(&sales).Error
	return sales, err
}

// Count returns the total number of sales
func (r *GormSaleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Sale{}).Count(&count).Error
	return count, err
}
