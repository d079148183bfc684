package dto

import (
	"dogwalking/shared/constant"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positiveInt(values url.Values, key string) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n <= 0 {
		return 0
	}

	return n
}

// FromRequest reads paging and sorting from the query string. Limits above
// MaxValueLimit are clamped. With withDefaults, missing page and limit get
// the default values.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page := positiveInt(values, constant.RequestParamPage); page > 0 {
		q.Page = page
	}

	if limit := positiveInt(values, constant.RequestParamLimit); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch sortDir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); sortDir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = sortDir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
