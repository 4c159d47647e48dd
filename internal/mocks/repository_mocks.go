// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockCartonRepositoryInterface struct {
	mock.Mock
}

func (m *MockCartonRepositoryInterface) Snapshot(ctx context.Context) (model.CatalogSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CatalogSnapshot), args.Error(1)
}

func (m *MockCartonRepositoryInterface) Version(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartonRepositoryInterface) Upsert(ctx context.Context, carton model.Carton) (int64, error) {
	args := m.Called(ctx, carton)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartonRepositoryInterface) Deactivate(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockSolutionRepositoryInterface struct {
	mock.Mock
}

func (m *MockSolutionRepositoryInterface) Save(ctx context.Context, solution *model.PackingSolution) error {
	args := m.Called(ctx, solution)
	return args.Error(0)
}

func (m *MockSolutionRepositoryInterface) FindByID(ctx context.Context, id string) (*model.PackingSolution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSolution), args.Error(1)
}

func (m *MockSolutionRepositoryInterface) FindByOrderID(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error) {
	args := m.Called(ctx, orderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PackingSolution), args.Error(1)
}
