package postgres

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations were not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var customerColumns = []string{"id", "username", "email", "phone_number", "post_code"}

func newCustomerTest() *customer.Customer {
	return customer.NewCustomer("C001", "Taro", "t@example.com", "09012345678", "1000001")
}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	return context.Background(), NewCustomerRepository(mockPool, logger), mockPool
}

func TestFindAllReturnsCustomersOrderedByID(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, phone_number, post_code FROM customer ORDER BY id`)).
		WillReturnRows(pgxmock.NewRows(customerColumns).
			AddRow("C001", "Taro", "t@example.com", "09012345678", "1000001").
			AddRow("C002", "Hanako", "h@example.com", "0312345678", "1500001"))

	customers, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "C001", customers[0].ID)
	assert.Equal(t, "C002", customers[1].ID)
	assert.Equal(t, "0312345678", customers[1].PhoneNumber)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllReturnsEmptySlice(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findAllCustomersSQL)).WillReturnRows(pgxmock.NewRows(customerColumns))

	customers, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findAllCustomersSQL)).WillReturnError(errors.New("connection reset"))

	customers, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Nil(t, customers)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnOne(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, phone_number, post_code FROM customer WHERE id = $1`)).
		WithArgs(customerTest.ID).
		WillReturnRows(pgxmock.NewRows(customerColumns).
			AddRow(customerTest.ID, customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode))

	customerResult, err := repo.FindByID(ctx, customerTest.ID)
	require.NoError(t, err)
	assert.Equal(t, customerTest, customerResult)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnNone(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerByIDSQL)).WithArgs("C404").WillReturnError(pgx.ErrNoRows)

	customerResult, err := repo.FindByID(ctx, "C404")
	assert.NoError(t, err)
	assert.Nil(t, customerResult)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerByIDSQL)).WithArgs("C001").WillReturnError(errors.New("timeout"))

	customerResult, err := repo.FindByID(ctx, "C001")
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Nil(t, customerResult)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDForUpdateLocksRow(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, phone_number, post_code FROM customer WHERE id = $1 FOR UPDATE`)).
		WithArgs(customerTest.ID).
		WillReturnRows(pgxmock.NewRows(customerColumns).
			AddRow(customerTest.ID, customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode))

	customerResult, err := repo.FindByIDForUpdate(ctx, customerTest.ID)
	require.NoError(t, err)
	assert.Equal(t, customerTest.ID, customerResult.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()

	mockPool.ExpectExec(regexp.QuoteMeta(`INSERT INTO customer (id, username, email, phone_number, post_code) VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs(customerTest.ID, customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Insert(ctx, customerTest)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertCustomerWhenPrimaryKeyViolated(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()

	mockPool.ExpectExec(regexp.QuoteMeta(insertCustomerSQL)).
		WithArgs(customerTest.ID, customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customer_pkey", Detail: "Key (id)=(C001) already exists."})

	err := repo.Insert(ctx, customerTest)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NotErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertCustomerWhenDatabaseFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()

	mockPool.ExpectExec(regexp.QuoteMeta(insertCustomerSQL)).
		WithArgs(customerTest.ID, customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode).
		WillReturnError(&pgconn.PgError{Code: "22001", Message: "value too long for type character varying(50)"})

	err := repo.Insert(ctx, customerTest)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertNilCustomer(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	err := repo.Insert(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdateCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()
	customerTest.PostCode = "1000002"

	mockPool.ExpectExec(regexp.QuoteMeta(`UPDATE customer SET username = $1, email = $2, phone_number = $3, post_code = $4 WHERE id = $5`)).
		WithArgs(customerTest.Username, customerTest.Email, customerTest.PhoneNumber, "1000002", customerTest.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(ctx, customerTest)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdateCustomerWhenNoRowsAffected(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	customerTest := newCustomerTest()

	mockPool.ExpectExec(regexp.QuoteMeta(updateCustomerSQL)).
		WithArgs(customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode, customerTest.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(ctx, customerTest)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM customer WHERE id = $1`)).
		WithArgs("C001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(ctx, "C001")
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenNoRowsAffected(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerSQL)).
		WithArgs("C404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(ctx, "C404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenDatabaseFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerSQL)).
		WithArgs("C001").
		WillReturnError(errors.New("connection lost"))

	err := repo.Delete(ctx, "C001")
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCountCustomers(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM customer`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCountCustomersWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(countCustomersSQL)).WillReturnError(errors.New("relation does not exist"))

	count, err := repo.Count(ctx)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Zero(t, count)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestRepositoryJoinsTransactionFromContext(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	trx := NewTransactor(mockPool, logger)
	customerTest := newCustomerTest()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerByIDSQL)).WithArgs(customerTest.ID).WillReturnError(pgx.ErrNoRows)
	mockPool.ExpectExec(regexp.QuoteMeta(insertCustomerSQL)).
		WithArgs(customerTest.ID, customerTest.Username, customerTest.Email, customerTest.PhoneNumber, customerTest.PostCode).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	err := trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := repo.FindByID(txCtx, customerTest.ID)
		if err != nil {
			return err
		}
		assert.Nil(t, existing)
		return repo.Insert(txCtx, customerTest)
	})

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, translateDBError(nil, logger))
	assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "23505"}, logger), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "40001"}, logger), apperrors.ErrDatabase)
	assert.ErrorIs(t, translateDBError(errors.New("broken pipe"), logger), apperrors.ErrDatabase)
}
