// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/events"
	"github.com/stretchr/testify/mock"
)

type MockSnapshotSource struct {
	mock.Mock
}

func (m *MockSnapshotSource) Snapshot(ctx context.Context) (model.CatalogSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CatalogSnapshot), args.Error(1)
}

type MockItemResolver struct {
	mock.Mock
}

func (m *MockItemResolver) Resolve(ctx context.Context, items []model.Item) ([]model.Item, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

type MockDimensionProvider struct {
	mock.Mock
}

func (m *MockDimensionProvider) Lookup(ctx context.Context, sku string) (model.ProductDimensions, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(model.ProductDimensions), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event *events.CloudEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockCartonizer struct {
	mock.Mock
}

func (m *MockCartonizer) CalculatePackingSolution(ctx context.Context, req model.PackingRequest) (*model.PackingSolution, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSolution), args.Error(1)
}

func (m *MockCartonizer) GetSolution(ctx context.Context, id string) (*model.PackingSolution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSolution), args.Error(1)
}

func (m *MockCartonizer) SolutionsForOrder(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error) {
	args := m.Called(ctx, orderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PackingSolution), args.Error(1)
}

type MockCatalogManager struct {
	mock.Mock
}

func (m *MockCatalogManager) Snapshot(ctx context.Context) (model.CatalogSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CatalogSnapshot), args.Error(1)
}

func (m *MockCatalogManager) Upsert(ctx context.Context, carton model.Carton) (int64, error) {
	args := m.Called(ctx, carton)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogManager) Deactivate(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
