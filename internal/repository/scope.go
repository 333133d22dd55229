package repository

import (
	"context"
	"strings"

	"github.com/kardexcare/service-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// ListOrder builds the ORDER BY clause for paginated lists. Display columns
// come first; id is always the final key so page boundaries stay stable when
// display values (names, timestamps) tie.
func ListOrder(displayColumns ...string) string {
	return strings.Join(append(displayColumns, "id ASC"), ", ")
}

// ApplyScope applies the caller's zone/customer visibility filter to a GORM
// query. Tables carrying both zone_id and customer_id columns (tickets,
// offers) can use it directly; others use the column variants below.
// An unrestricted scope leaves the query unchanged; a zone scope with no
// zones matches nothing.
func ApplyScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	scope := auth.EffectiveScope(ctx)
	switch scope.Kind {
	case auth.ScopeCustomer:
		if scope.CustomerID == nil {
			return query.Where("1 = 0")
		}
		return query.Where("customer_id = ?", *scope.CustomerID)
	case auth.ScopeZones:
		if len(scope.ZoneIDs) == 0 {
			return query.Where("1 = 0")
		}
		return query.Where("zone_id IN ?", scope.ZoneIDs)
	default:
		return query
	}
}

// ApplyZoneScope filters by zone only, using the given column name.
// Customer-scoped callers are filtered by customerColumn instead when the
// table has one; pass "" to skip customer filtering (e.g. the zones table).
func ApplyZoneScope(ctx context.Context, query *gorm.DB, zoneColumn, customerColumn string) *gorm.DB {
	scope := auth.EffectiveScope(ctx)
	switch scope.Kind {
	case auth.ScopeCustomer:
		if customerColumn == "" {
			return query
		}
		if scope.CustomerID == nil {
			return query.Where("1 = 0")
		}
		return query.Where(customerColumn+" = ?", *scope.CustomerID)
	case auth.ScopeZones:
		if len(scope.ZoneIDs) == 0 {
			return query.Where("1 = 0")
		}
		return query.Where(zoneColumn+" IN ?", scope.ZoneIDs)
	default:
		return query
	}
}

// ScopeAllowsZone checks whether the caller may touch a record in the given
// zone. Useful on single-record writes where the filter can't be applied to
// the query itself.
func ScopeAllowsZone(ctx context.Context, zoneID string) bool {
	scope := auth.EffectiveScope(ctx)
	if scope.Kind != auth.ScopeZones {
		return true
	}
	for _, id := range scope.ZoneIDs {
		if id.String() == zoneID {
			return true
		}
	}
	return false
}
