package tripItem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateItem(ctx context.Context, tripID uuid.UUID, p ItemParams) (*types.TripItem, error) {
	args := m.Called(ctx, tripID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripItem), args.Error(1)
}

func (m *MockRepository) GetItem(ctx context.Context, tripID, itemID uuid.UUID) (*types.TripItem, error) {
	args := m.Called(ctx, tripID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripItem), args.Error(1)
}

func (m *MockRepository) ListItems(ctx context.Context, tripID uuid.UUID) ([]types.TripItem, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripItem), args.Error(1)
}

func (m *MockRepository) UpdateItem(ctx context.Context, tripID, itemID uuid.UUID, p ItemParams) (*types.TripItem, error) {
	args := m.Called(ctx, tripID, itemID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripItem), args.Error(1)
}

func (m *MockRepository) DeleteItem(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.Called(ctx, tripID, itemID).Error(0)
}

func (m *MockRepository) BatchInsert(ctx context.Context, tripID uuid.UUID, items []ItemParams) ([]types.TripItem, error) {
	args := m.Called(ctx, tripID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripItem), args.Error(1)
}

type MockTripFinder struct {
	mock.Mock
}

func (m *MockTripFinder) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestParseItemRequest(t *testing.T) {
	t.Run("unknown type defaults to activity", func(t *testing.T) {
		p, err := ParseItemRequest(types.TripItemRequest{Type: "spa", Title: " Massage "})
		require.NoError(t, err)
		assert.Equal(t, types.ItemTypeActivity, p.Type)
		assert.Equal(t, "Massage", p.Title)
		assert.Nil(t, p.Start)
	})

	t.Run("datetime-local input", func(t *testing.T) {
		p, err := ParseItemRequest(types.TripItemRequest{Type: "transportation", Title: "Train", StartDatetime: ptr("2025-06-02T08:15")})
		require.NoError(t, err)
		assert.Equal(t, types.ItemTypeTransportation, p.Type)
		assert.Equal(t, "2025-06-02T08:15:00", *types.FormatLocalDateTime(p.Start))
	})

	t.Run("title required", func(t *testing.T) {
		_, err := ParseItemRequest(types.TripItemRequest{Type: "food"})
		assert.ErrorIs(t, err, api.ErrValidation)
	})

	t.Run("bad datetime", func(t *testing.T) {
		_, err := ParseItemRequest(types.TripItemRequest{Title: "x", EndDatetime: ptr("at noon")})
		assert.ErrorIs(t, err, api.ErrValidation)
	})
}

func TestGroupByDay(t *testing.T) {
	items := []types.TripItem{
		{Title: "Breakfast", StartDatetime: ptr("2025-06-01T08:00:00")},
		{Title: "Museum", StartDatetime: ptr("2025-06-01T10:00:00")},
		{Title: "Beach", StartDatetime: ptr("2025-06-03T11:00:00")},
		{Title: "Souvenirs"},
	}

	days := GroupByDay(items)
	require.Len(t, days, 3)
	assert.Equal(t, types.DaySchedule{Day: 1, Date: "2025-06-01", Items: items[:2]}, days[0])
	assert.Equal(t, 2, days[1].Day)
	assert.Equal(t, "2025-06-03", days[1].Date)
	assert.Equal(t, "", days[2].Date)
	assert.Equal(t, "Souvenirs", days[2].Items[0].Title)

	assert.Empty(t, GroupByDay(nil))
}

func TestService_CreateItem_RequiresOwnership(t *testing.T) {
	repo, trips := new(MockRepository), new(MockTripFinder)
	svc := NewServiceImpl(repo, trips, testLogger())
	userID, tripID := uuid.New(), uuid.New()
	trips.On("GetTrip", mock.Anything, userID, tripID).Return(nil, api.ErrNotFound)

	_, err := svc.CreateItem(context.Background(), userID, tripID, types.TripItemRequest{Title: "Dinner", Type: "food"})
	assert.ErrorIs(t, err, api.ErrNotFound)
	repo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_InsertBatch(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, new(MockTripFinder), testLogger())
	tripID := uuid.New()

	got, err := svc.InsertBatch(context.Background(), tripID, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "BatchInsert", mock.Anything, mock.Anything, mock.Anything)

	batch := []ItemParams{{Type: types.ItemTypeActivity, Title: "Walk"}}
	repo.On("BatchInsert", mock.Anything, tripID, batch).Return(nil, &types.BatchInsertError{Count: 1})
	_, err = svc.InsertBatch(context.Background(), tripID, batch)
	var batchErr *types.BatchInsertError
	assert.ErrorAs(t, err, &batchErr)
}
