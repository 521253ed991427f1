package database

import (
	"context"
	"fmt"
	"strings"

	"pureproxy/internal/api/dto"
	"pureproxy/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	upsertBatchSize   = 200
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// UpsertEndpoints writes validated endpoints keyed on (ip, port). Probe
// results always replace the stored row; geo fields only replace known
// values, so an enrichment outage never erases data a previous run found.
func UpsertEndpoints(ctx context.Context, endpoints []domain.Endpoint) error {
	if DB == nil {
		return fmt.Errorf("endpoint upsert: database connection was not initialised")
	}
	if len(endpoints) == 0 {
		return nil
	}

	unique := dedupeByAddr(endpoints)

	return DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip"}, {Name: "port"}},
		DoUpdates: mergeAssignments(),
	}).CreateInBatches(&unique, upsertBatchSize).Error
}

// Later entries for the same address win; they carry the freshest check.
func dedupeByAddr(endpoints []domain.Endpoint) []domain.Endpoint {
	index := make(map[string]int, len(endpoints))
	unique := make([]domain.Endpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		addr := fmt.Sprintf("%s:%d", endpoint.IP, endpoint.Port)
		if at, seen := index[addr]; seen {
			unique[at] = endpoint
			continue
		}
		index[addr] = len(unique)
		unique = append(unique, endpoint)
	}
	return unique
}

func mergeAssignments() clause.Set {
	return clause.Assignments(map[string]interface{}{
		"protocol":        gorm.Expr("excluded.protocol"),
		"latency_ms":      gorm.Expr("excluded.latency_ms"),
		"purity_score":    gorm.Expr("excluded.purity_score"),
		"source_trust":    gorm.Expr("excluded.source_trust"),
		"last_checked_at": gorm.Expr("excluded.last_checked_at"),
		"country": gorm.Expr(
			"CASE WHEN excluded.country IN ('', ?) THEN endpoints.country ELSE excluded.country END",
			domain.UnknownCountry,
		),
		"country_code": gorm.Expr(
			"CASE WHEN excluded.country_code IN ('', ?) THEN endpoints.country_code ELSE excluded.country_code END",
			domain.UnknownCountryCode,
		),
		"region": gorm.Expr("CASE WHEN excluded.region = '' THEN endpoints.region ELSE excluded.region END"),
		"city":   gorm.Expr("CASE WHEN excluded.city = '' THEN endpoints.city ELSE excluded.city END"),
		"isp": gorm.Expr(
			"CASE WHEN excluded.isp IN ('', ?) THEN endpoints.isp ELSE excluded.isp END",
			domain.UnknownISP,
		),
		// Residential rides on the ISP name, so it is only trustworthy when
		// the lookup actually resolved one.
		"is_residential": gorm.Expr(
			"CASE WHEN excluded.isp IN ('', ?) THEN endpoints.is_residential ELSE excluded.is_residential END",
			domain.UnknownISP,
		),
	})
}

func QueryEndpoints(ctx context.Context, filter dto.EndpointFilter) ([]domain.Endpoint, int64, error) {
	if DB == nil {
		return nil, 0, fmt.Errorf("endpoint query: database connection was not initialised")
	}

	query := DB.WithContext(ctx).Model(&domain.Endpoint{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(ip) LIKE ? OR LOWER(country) LIKE ? OR LOWER(isp) LIKE ?",
			needle, needle, needle,
		)
	}
	if filter.MinPurity > 0 {
		query = query.Where("purity_score >= ?", filter.MinPurity)
	}
	if filter.Residential != nil {
		query = query.Where("is_residential = ?", *filter.Residential)
	}
	if code := strings.TrimSpace(filter.CountryCode); code != "" {
		query = query.Where("country_code = ?", strings.ToUpper(code))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("endpoint query: count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	var endpoints []domain.Endpoint
	err := query.Order(orderClause(filter)).Limit(limit).Find(&endpoints).Error
	if err != nil {
		return nil, 0, fmt.Errorf("endpoint query: %w", err)
	}

	return endpoints, total, nil
}

func orderClause(filter dto.EndpointFilter) string {
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	switch strings.ToLower(strings.TrimSpace(filter.SortBy)) {
	case "country":
		// Endpoints the enrichment never resolved sort last either way.
		return fmt.Sprintf("CASE WHEN country IN ('', '%s') THEN 1 ELSE 0 END, country %s",
			domain.UnknownCountry, direction)
	case "latency":
		return fmt.Sprintf("CASE WHEN latency_ms <= 0 THEN 1 ELSE 0 END, latency_ms %s", direction)
	case "purity":
		return fmt.Sprintf("purity_score %s", direction)
	default:
		return "is_residential DESC, purity_score DESC"
	}
}
