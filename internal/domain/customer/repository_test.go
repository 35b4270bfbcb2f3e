package customer

import (
	"context"
	"customer-service/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)

func (_m *MockCustomerRepository) FindAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if rf, ok := ret.Get(0).(func(context.Context) []*Customer); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*Customer, error) {
	ret := _m.Called(ctx, id)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, string) *Customer); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (*Customer, error) {
	ret := _m.Called(ctx, id)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Insert(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)

	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		return rf(ctx, customer)
	}
	return ret.Error(0)
}

func (_m *MockCustomerRepository) Update(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

// MockTransactor records the call and then runs fn with the same context,
// unless the expectation returns an error (a failed BEGIN).
type MockTransactor struct {
	mock.Mock
}

var _ Transactor = (*MockTransactor)(nil)

func (_m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ret := _m.Called(ctx)
	if err := ret.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

type MockEventPublisher struct {
	mock.Mock
}

var _ event.EventPublisher = (*MockEventPublisher)(nil)

func (_m *MockEventPublisher) PublishCustomerCreated(ctx context.Context, e event.CustomerCreatedEvent) error {
	return _m.Called(ctx, e).Error(0)
}

func (_m *MockEventPublisher) PublishCustomerUpdated(ctx context.Context, e event.CustomerUpdatedEvent) error {
	return _m.Called(ctx, e).Error(0)
}

func (_m *MockEventPublisher) PublishCustomerDeleted(ctx context.Context, e event.CustomerDeletedEvent) error {
	return _m.Called(ctx, e).Error(0)
}
