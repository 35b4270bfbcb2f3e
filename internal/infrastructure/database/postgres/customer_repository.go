package postgres

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/monitoring"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	selectCustomerColumns = `SELECT id, username, email, phone_number, post_code FROM customer`

	findAllCustomersSQL = selectCustomerColumns + ` ORDER BY id`

	findCustomerByIDSQL = selectCustomerColumns + ` WHERE id = $1`

	findCustomerByIDForUpdateSQL = findCustomerByIDSQL + ` FOR UPDATE`

	insertCustomerSQL = `INSERT INTO customer (id, username, email, phone_number, post_code) VALUES ($1, $2, $3, $4, $5)`

	updateCustomerSQL = `UPDATE customer SET username = $1, email = $2, phone_number = $3, post_code = $4 WHERE id = $5`

	deleteCustomerSQL = `DELETE FROM customer WHERE id = $1`

	countCustomersSQL = `SELECT COUNT(*) FROM customer`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) FindAll(ctx context.Context) (customers []*customer.Customer, err error) {
	defer observe("FindAll", time.Now(), &err)

	r.logger.DebugContext(ctx, "Attempting to find all customers")

	rows, err := executor(ctx, r.db).Query(ctx, findAllCustomersSQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers = make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		if err = rows.Scan(&cust.ID, &cust.Username, &cust.Email, &cust.PhoneNumber, &cust.PostCode); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (cust *customer.Customer, err error) {
	defer observe("FindByID", time.Now(), &err)
	return r.findOne(ctx, findCustomerByIDSQL, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (cust *customer.Customer, err error) {
	defer observe("FindByIDForUpdate", time.Now(), &err)
	if _, ok := txFromContext(ctx); !ok {
		r.logger.WarnContext(ctx, "Row lock requested outside a transaction, lock is released immediately", slog.String("customerID", id))
	}
	return r.findOne(ctx, findCustomerByIDForUpdateSQL, id)
}

func (r *CustomerRepository) findOne(ctx context.Context, query, id string) (*customer.Customer, error) {
	logCtx := r.logger.With(slog.String("customerID", id))
	logCtx.DebugContext(ctx, "Attempting to find customer by ID")

	var cust customer.Customer
	err := executor(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&cust.ID,
		&cust.Username,
		&cust.Email,
		&cust.PhoneNumber,
		&cust.PostCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.DebugContext(ctx, "Customer not found")
			return nil, nil
		}
		logCtx.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return &cust, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) (err error) {
	defer observe("Insert", time.Now(), &err)

	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("customerID", cust.ID))
	logCtx.DebugContext(ctx, "Attempting to insert customer")

	_, err = executor(ctx, r.db).Exec(ctx, insertCustomerSQL,
		cust.ID,
		cust.Username,
		cust.Email,
		cust.PhoneNumber,
		cust.PostCode,
	)
	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return translatedErr
		}
		logCtx.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("failed to insert customer: %w", translatedErr)
	}

	logCtx.InfoContext(ctx, "Customer inserted successfully")
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) (err error) {
	defer observe("Update", time.Now(), &err)

	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("customerID", cust.ID))
	logCtx.DebugContext(ctx, "Attempting to update customer")

	cmdTag, err := executor(ctx, r.db).Exec(ctx, updateCustomerSQL,
		cust.Username,
		cust.Email,
		cust.PhoneNumber,
		cust.PostCode,
		cust.ID,
	)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("failed to update customer: %w", translateDBError(err, logCtx))
	}

	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	logCtx.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) (err error) {
	defer observe("Delete", time.Now(), &err)

	logCtx := r.logger.With(slog.String("customerID", id))
	logCtx.DebugContext(ctx, "Attempting to delete customer")

	cmdTag, err := executor(ctx, r.db).Exec(ctx, deleteCustomerSQL, id)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	logCtx.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (count int64, err error) {
	defer observe("Count", time.Now(), &err)

	if err = executor(ctx, r.db).QueryRow(ctx, countCustomersSQL).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to count customers: %w", apperrors.ErrDatabase, err)
	}
	return count, nil
}

func observe(queryName string, start time.Time, err *error) {
	monitoring.RecordDBQuery(queryName, *err, time.Since(start))
}
