//go:build wireinject
// +build wireinject

package sale

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/lepaiper/pos/internal/sale/delivery/http"
	"github.com/lepaiper/pos/internal/sale/domain"
	"github.com/lepaiper/pos/internal/sale/repository"
	"github.com/lepaiper/pos/internal/sale/usecase/command"
)

// ProvideSaleRepository provides the sale repository
func ProvideSaleRepository(db *gorm.DB) domain.SaleRepository {
	return repository.NewGormSaleRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSaleRepository,
)

// InitializeHTTPHandler initializes the sale HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, recorder command.AuditRecorder, publisher command.EventPublisher) (*http.SaleHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewSaleHandler,
	)
	return nil, nil
}
