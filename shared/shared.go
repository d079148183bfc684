package shared

import (
	"context"
	"dogwalking/shared/cache"
	"dogwalking/shared/constant"
	"dogwalking/shared/dto"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// BuildCacheKey joins a prefix with the given parts using ':' as separator.
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a deterministic key from paging and filter arguments.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	hash := fnv.New32a()
	_, _ = hash.Write([]byte(where))

	for _, key := range keys {
		_, _ = fmt.Fprintf(hash, "|%s=%v", key, args[key])
	}

	return BuildCacheKey(prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		strconv.FormatUint(uint64(hash.Sum32()), 16),
	)
}

// InvalidateCaches drops every key under prefix. Failures are logged, never returned.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterBy(fieldID, id, table)
}

// FilterBy builds a single equality filter group.
func FilterBy(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// Actor returns the caller identity and role stored on the request context.
func Actor(ctx context.Context) (id, role string) {
	id, _ = ctx.Value(constant.ContextKeyUserID).(string)
	role, _ = ctx.Value(constant.ContextKeyUserRole).(string)

	return id, role
}

// IsPrivileged reports whether the caller may act on records it is not a party to.
func IsPrivileged(ctx context.Context) bool {
	_, role := Actor(ctx)

	return role == constant.RoleAdmin || role == constant.RoleInternal
}

// ActorOrSystem falls back to the system actor for background work.
func ActorOrSystem(ctx context.Context) string {
	if id, _ := Actor(ctx); id != constant.Empty {
		return id
	}

	return constant.ActorSystem
}
