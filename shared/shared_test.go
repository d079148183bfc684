package shared_test

import (
	"context"
	"dogwalking/shared"
	"dogwalking/shared/cache/mocks"
	"dogwalking/shared/constant"
	"dogwalking/shared/dto"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "numeric false", input: "0", expected: boolPtr(false)},
		{name: "upper case", input: "TRUE", expected: boolPtr(true)},
		{name: "garbage returns nil", input: "frozen", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "no rows", total: 0, limit: 10, expected: 1},
		{name: "exact pages", total: 20, limit: 10, expected: 2},
		{name: "partial last page", total: 21, limit: 10, expected: 3},
		{name: "zero limit", total: 5, limit: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get", shared.BuildCacheKey("booking:get"))
	assert.Equal(t, "ledger:summary:walker-1", shared.BuildCacheKey("ledger:summary", "walker-1"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: dto.SortDirDesc}

	first := shared.BuildCacheKeyWithQuery("booking:gets", params, shared.FilterBy("walker_id", "w-1", "bookings"))
	again := shared.BuildCacheKeyWithQuery("booking:gets", params, shared.FilterBy("walker_id", "w-1", "bookings"))
	other := shared.BuildCacheKeyWithQuery("booking:gets", params, shared.FilterBy("walker_id", "w-2", "bookings"))

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.Contains(t, first, "booking:gets:1:10:created_at:DESC:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Clear(gomock.Any(), "booking:gets*").Return(nil)
	shared.InvalidateCaches(context.Background(), redisCache, "booking:gets")

	redisCache.EXPECT().Clear(gomock.Any(), "booking:count*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), redisCache, "booking:count")
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("b-1", "id", "bookings")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
		},
	}, result)

	where, args := result.GetWhereClause()
	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)
}

func TestActor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "walker-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)

	id, role := shared.Actor(ctx)
	assert.Equal(t, "walker-1", id)
	assert.Equal(t, constant.RoleUser, role)
	assert.False(t, shared.IsPrivileged(ctx))
	assert.Equal(t, "walker-1", shared.ActorOrSystem(ctx))

	admin := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleAdmin)
	assert.True(t, shared.IsPrivileged(admin))
	assert.Equal(t, constant.ActorSystem, shared.ActorOrSystem(admin))
}
