package audit

import "context"

const (
	cachingPattern     = `(redis|memcache|cache|lru)`
	paginationPattern  = `(paginat|page[-_]?size|per_page|perPage|cursor|offset|take:|skip:)`
	indexPattern       = `(createIndex|create[[:space:]]+(unique[[:space:]]+)?index|@@index|@Index|db_index|add_index|index:[[:space:]]*true|ensureIndex)`
	compressionPattern = `(compression|gzip|brotli|cdn|cloudfront|fastly|lazy)`
)

// checkPerformance re-evaluates rate limiting on its own; the Security Hardening check counts it too.
func checkPerformance(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryPerformance)

	if len(searchSource(executionContext, inspector, cachingPattern)) > 0 {
		evaluation.pass(1, "Caching layer detected")
	} else {
		evaluation.warn("No caching").
			improve("Cache expensive reads")
	}

	if len(searchSource(executionContext, inspector, paginationPattern)) > 0 {
		evaluation.pass(1, "Pagination implemented")
	} else {
		evaluation.fail("No pagination").
			publicLaunch("List endpoints are unpaginated and will degrade as data grows")
	}

	if len(searchEverywhere(executionContext, inspector, indexPattern)) > 0 {
		evaluation.pass(1, "Database indexes defined")
	} else {
		evaluation.warn("No database indexes defined").
			improve("Index columns used in frequent queries")
	}

	if len(searchSource(executionContext, inspector, rateLimitingPattern)) > 0 {
		evaluation.pass(1, "Rate limiting protects capacity")
	} else {
		evaluation.warn("No rate limiting to protect capacity").
			improve("Rate limit expensive endpoints")
	}

	if len(searchEverywhere(executionContext, inspector, compressionPattern)) > 0 {
		evaluation.pass(1, "Compression, CDN, or lazy loading in use")
	} else {
		evaluation.warn("No compression, CDN, or lazy loading").
			improve("Serve compressed assets through a CDN")
	}

	return evaluation.result()
}
