package domain

import "context"

// DashboardStats are the record counts visible to one actor
type DashboardStats struct {
	TotalIncidents int `json:"totalIncidents"`
	TotalWarnings  int `json:"totalWarnings"`
	TotalBans      int `json:"totalBans"`
	TotalVenues    int `json:"totalVenues"`
}

// StatsCache holds per-actor dashboard stats between mutations.
// Get reports the current generation alongside the entry. Set stores stats
// counted under that generation; once Invalidate has moved the generation on,
// such entries are never returned. A negative generation means the cache is
// unavailable and Set is skipped.
// Implementations are best effort: a failing cache behaves like an empty one.
type StatsCache interface {
	Get(ctx context.Context, actorID string) (stats *DashboardStats, gen int64, ok bool)
	Set(ctx context.Context, actorID string, gen int64, stats DashboardStats)
	Invalidate(ctx context.Context)
}
