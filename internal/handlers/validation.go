package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vtuwallet/internal/ledger"
)

var (
	errInvalidDate   = errors.New("invalid date")
	errInvalidFilter = errors.New("invalid filter")
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// parseDate accepts RFC 3339 timestamps or bare dates, read as midnight UTC.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	if day, err := time.Parse(time.DateOnly, raw); err == nil {
		return day, nil
	}
	return time.Time{}, errInvalidDate
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, errInvalidDate
	}
	return from, to, nil
}

func parseFilter(r *http.Request) (ledger.Filter, error) {
	from, to, err := parseRange(r)
	if err != nil {
		return ledger.Filter{}, err
	}
	filter := ledger.Filter{
		Category: ledger.Category(r.URL.Query().Get("category")),
		Status:   ledger.Status(r.URL.Query().Get("status")),
		From:     from,
		To:       to,
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return ledger.Filter{}, errInvalidFilter
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return ledger.Filter{}, errInvalidFilter
	}
	return filter, nil
}

func parsePaging(r *http.Request) (int, int) {
	limit := parseInt(r.URL.Query().Get("limit"), defaultPageSize)
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// reference prefers the Idempotency-Key header over the body field.
func reference(r *http.Request, body string) string {
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		return key
	}
	return body
}
