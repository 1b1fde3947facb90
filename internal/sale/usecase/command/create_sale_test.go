package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepaiper/pos/internal/audit"
	"github.com/lepaiper/pos/internal/sale/domain"
	"github.com/lepaiper/pos/kafka"
)

type stubSaleRepository struct {
	commits []domain.CommitRequest
	sale    *domain.Sale
	err     error
}

func (s *stubSaleRepository) Commit(_ context.Context, req domain.CommitRequest) (*domain.Sale, error) {
	s.commits = append(s.commits, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.sale, nil
}

func (s *stubSaleRepository) FindRecent(int) ([]domain.Sale, error)      { return nil, nil }
func (s *stubSaleRepository) FindSince(time.Time) ([]domain.Sale, error) { return nil, nil }
func (s *stubSaleRepository) Count() (int64, error)                      { return 0, nil }

type stubRecorder struct {
	entries []audit.Entry
}

func (s *stubRecorder) Record(entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

type stubPublisher struct {
	events []kafka.SaleCompletedEvent
	err    error
}

func (s *stubPublisher) PublishSaleCompleted(_ context.Context, event kafka.SaleCompletedEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func validCommand() CreateSaleCommand {
	return CreateSaleCommand{
		PaymentMethod: domain.PaymentPix,
		Items: []domain.LineItem{
			{ProductID: uuid.NewString(), Quantity: 2, Price: 10.00},
		},
		ActorID: uuid.NewString(),
	}
}

func TestHandle_Success(t *testing.T) {
	committed := &domain.Sale{
		ID:            uuid.NewString(),
		Total:         20.00,
		PaymentMethod: domain.PaymentPix,
		Items:         []domain.SaleItem{{ID: uuid.NewString()}},
	}
	repo := &stubSaleRepository{sale: committed}
	recorder := &stubRecorder{}
	publisher := &stubPublisher{}
	handler := NewCreateSaleHandler(repo, recorder, publisher)

	sale, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	assert.Equal(t, committed.ID, sale.ID)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "create", recorder.entries[0].Action)
	assert.Equal(t, "sale", recorder.entries[0].Entity)
	assert.Equal(t, committed.ID, recorder.entries[0].EntityID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, committed.ID, publisher.events[0].SaleID)
}

func TestHandle_PublisherFailureIsSwallowed(t *testing.T) {
	repo := &stubSaleRepository{sale: &domain.Sale{ID: uuid.NewString()}}
	publisher := &stubPublisher{err: errors.New("broker down")}
	handler := NewCreateSaleHandler(repo, nil, publisher)

	sale, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	assert.NotNil(t, sale)
}

func TestHandle_NilRecorderAndPublisher(t *testing.T) {
	repo := &stubSaleRepository{sale: &domain.Sale{ID: uuid.NewString()}}
	handler := NewCreateSaleHandler(repo, nil, nil)

	_, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
}

func TestHandle_RepositoryErrorPropagates(t *testing.T) {
	repo := &stubSaleRepository{err: domain.ErrInsufficientStock}
	recorder := &stubRecorder{}
	handler := NewCreateSaleHandler(repo, recorder, nil)

	_, err := handler.Handle(context.Background(), validCommand())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, recorder.entries)
}

func TestHandle_ValidationRejectsBeforeCommit(t *testing.T) {
	badClient := "not-a-uuid"

	tests := []struct {
		name  string
		mut   func(cmd *CreateSaleCommand)
		field string
	}{
		{
			name:  "unknown payment method",
			mut:   func(cmd *CreateSaleCommand) { cmd.PaymentMethod = "bitcoin" },
			field: "paymentMethod",
		},
		{
			name:  "malformed client id",
			mut:   func(cmd *CreateSaleCommand) { cmd.ClientID = &badClient },
			field: "clientId",
		},
		{
			name:  "empty cart",
			mut:   func(cmd *CreateSaleCommand) { cmd.Items = nil },
			field: "items",
		},
		{
			name:  "malformed product id",
			mut:   func(cmd *CreateSaleCommand) { cmd.Items[0].ProductID = "abc" },
			field: "items[0].productId",
		},
		{
			name:  "zero quantity",
			mut:   func(cmd *CreateSaleCommand) { cmd.Items[0].Quantity = 0 },
			field: "items[0].quantity",
		},
		{
			name:  "negative price",
			mut:   func(cmd *CreateSaleCommand) { cmd.Items[0].Price = -1 },
			field: "items[0].price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubSaleRepository{sale: &domain.Sale{}}
			handler := NewCreateSaleHandler(repo, nil, nil)

			cmd := validCommand()
			tt.mut(&cmd)

			_, err := handler.Handle(context.Background(), cmd)
			require.Error(t, err)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Empty(t, repo.commits, "validation failures must not reach the repository")
		})
	}
}
