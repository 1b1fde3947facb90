package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lepaiper/pos/internal/audit"
	"github.com/lepaiper/pos/internal/sale/domain"
	"github.com/lepaiper/pos/kafka"
	"github.com/lepaiper/pos/pkg/logger"
)

// CreateSaleCommand represents a checkout request for a cart of line items
type CreateSaleCommand struct {
	ClientID      *string
	PaymentMethod string
	Items         []domain.LineItem
	ActorID       string
}

// AuditRecorder accepts fire-and-forget audit entries
type AuditRecorder interface {
	Record(entry audit.Entry)
}

// EventPublisher emits sale events after commit
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error
}

// CreateSaleHandler handles the sale commit command
type CreateSaleHandler struct {
	repo      domain.SaleRepository
	recorder  AuditRecorder
	publisher EventPublisher
}

// NewCreateSaleHandler creates a new create sale handler. The publisher may
// be nil when no broker is configured.
func NewCreateSaleHandler(repo domain.SaleRepository, recorder AuditRecorder, publisher EventPublisher) *CreateSaleHandler {
	return &CreateSaleHandler{repo: repo, recorder: recorder, publisher: publisher}
}

// Handle validates the request and commits the sale atomically. The audit
// entry and the sale event are dispatched after the commit, outside the
// transaction; their failures never undo a committed sale.
func (h *CreateSaleHandler) Handle(ctx context.Context, cmd CreateSaleCommand) (*domain.Sale, error) {
	if err := validate(cmd); err != nil {
		return nil, err
	}

	sale, err := h.repo.Commit(ctx, domain.CommitRequest{
		ClientID:      cmd.ClientID,
		PaymentMethod: cmd.PaymentMethod,
		Items:         cmd.Items,
	})
	if err != nil {
		return nil, err
	}

	if h.recorder != nil {
		h.recorder.Record(audit.Entry{
			UserID:   cmd.ActorID,
			Action:   "create",
			Entity:   "sale",
			EntityID: sale.ID,
			Details:  fmt.Sprintf("total=%.2f method=%s items=%d", sale.Total, sale.PaymentMethod, len(sale.Items)),
		})
	}

	if h.publisher != nil {
		event := kafka.SaleCompletedEvent{
			SaleID:        sale.ID,
			Total:         sale.Total,
			PaymentMethod: sale.PaymentMethod,
			ItemCount:     len(sale.Items),
		}
		if sale.ClientID != nil {
			event.ClientID = *sale.ClientID
		}
		if err := h.publisher.PublishSaleCompleted(ctx, event); err != nil {
			logger.Warn(ctx).Err(err).Str("sale_id", sale.ID).Msg("Sale event publish failed")
		}
	}

	return sale, nil
}

// validate checks the shape of the request before any database interaction.
// The client-supplied price passes shape validation only; it is never used
// to compute the total.
func validate(cmd CreateSaleCommand) error {
	if !domain.ValidPaymentMethod(cmd.PaymentMethod) {
		return &domain.ValidationError{Field: "paymentMethod", Message: fmt.Sprintf("unknown payment method %q", cmd.PaymentMethod)}
	}
	if cmd.ClientID != nil {
		if _, err := uuid.Parse(*cmd.ClientID); err != nil {
			return &domain.ValidationError{Field: "clientId", Message: "malformed client id"}
		}
	}
	if len(cmd.Items) == 0 {
		return &domain.ValidationError{Field: "items", Message: "at least one item is required"}
	}
	for i, item := range cmd.Items {
		if _, err := uuid.Parse(item.ProductID); err != nil {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].productId", i), Message: "malformed product id"}
		}
		if item.Quantity <= 0 {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be a positive integer"}
		}
		if item.Price <= 0 {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].price", i), Message: "price must be positive"}
		}
	}
	return nil
}
