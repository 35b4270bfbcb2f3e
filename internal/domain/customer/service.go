package customer

import (
	"context"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/monitoring"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error)
	UpdateCustomer(ctx context.Context, id string, details *Customer) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	CountCustomers(ctx context.Context) (int64, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	trx    Transactor
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, trx Transactor, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if trx == nil {
		panic("transactor cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if eventPublisher == nil {
		logger.Warn("No event publisher provided to NewCustomerService, customer events will only be logged")
		eventPublisher = event.NewLogEventPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		trx:    trx,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		ID:          cust.ID,
		Username:    cust.Username,
		Email:       cust.Email,
		PhoneNumber: cust.PhoneNumber,
		PostCode:    cust.PostCode,
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository FindAll")
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	log := s.logger.With(slog.String("customerID", id))

	cust, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	if cust == nil {
		log.WarnContext(ctx, "Customer not found by repository")
		return nil, ErrNotFound
	}

	log.DebugContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	log := s.logger.With(slog.String("customerID", cust.ID))
	log.InfoContext(ctx, "Attempting to create new customer")

	err := s.trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, cust.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyExists
		}
		return s.repo.Insert(txCtx, cust)
	})
	if err != nil {
		// A concurrent insert of the same ID surfaces here as a primary key violation.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			log.WarnContext(ctx, "Customer already exists")
			return nil, ErrAlreadyExists
		}
		log.ErrorContext(ctx, "Failed to create customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create customer %s: %w", cust.ID, err)
	}

	monitoring.RecordCustomerCreated()
	log.InfoContext(ctx, "Successfully created new customer, publishing creation event")
	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		log.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}
	return cust, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, details *Customer) (*Customer, error) {
	if details == nil {
		return nil, fmt.Errorf("%w: customer details cannot be nil", apperrors.ErrInvalidArgument)
	}
	log := s.logger.With(slog.String("customerID", id))
	log.InfoContext(ctx, "Attempting to update customer")

	var updated *Customer
	err := s.trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		current.ReplaceDetails(details)
		if err := s.repo.Update(txCtx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "Customer not found for update")
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %s: %w", id, err)
	}

	monitoring.RecordCustomerUpdated()
	log.InfoContext(ctx, "Successfully updated customer, publishing update event")
	updatedEvent := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(updated),
	}
	if pubErr := s.pub.PublishCustomerUpdated(ctx, updatedEvent); pubErr != nil {
		log.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}
	return updated, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	log := s.logger.With(slog.String("customerID", id))
	log.InfoContext(ctx, "Attempting to delete customer")

	err := s.trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "Customer not found for delete")
			return ErrNotFound
		}
		log.ErrorContext(ctx, "Failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}

	monitoring.RecordCustomerDeleted()
	log.InfoContext(ctx, "Successfully deleted customer, publishing delete event")
	deletedEvent := event.CustomerDeletedEvent{
		Timestamp:  time.Now(),
		CustomerID: id,
	}
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deletedEvent); pubErr != nil {
		log.ErrorContext(ctx, "Customer deleted, but FAILED to publish delete event", slog.Any("error", pubErr))
	}
	return nil
}

func (s *customerService) CountCustomers(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error counting customers", slog.Any("error", err))
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
