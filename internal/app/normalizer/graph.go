package normalizer

import (
	"sort"
	"strings"
	"time"

	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/utils"
)

const (
	ResourceGraph      = "graph"
	ResourceGraphStats = "graph-stats"
	ResourceAction     = "action"
)

// NormalizeGraph returns the price points of a token graph sorted by time.
// Points are either objects ({timestamp, price}) or pairs ([ts, price]).
// A point without a usable timestamp cannot be plotted and is dropped.
func NormalizeGraph(env entity.Envelope) ([]entity.GraphPoint, error) {
	items, err := selectArray(env, ResourceGraph, "graph", "points")
	if err != nil {
		return nil, err
	}

	points := make([]entity.GraphPoint, 0, len(items))
	for _, item := range items {
		var (
			tsRaw any
			price float64
		)
		if m, ok := utils.AsMap(item); ok {
			tsRaw, _ = utils.FirstKey(m, "timestamp", "time", "date", "t")
			price = numberField(m, "price", "value", "p")
		} else if pair, ok := utils.AsSlice(item); ok && len(pair) >= 2 {
			tsRaw, price = pair[0], utils.ParseNumericOrZero(pair[1])
		} else {
			continue
		}

		ts, ok := parseTime(tsRaw)
		if !ok {
			continue
		}
		points = append(points, entity.GraphPoint{Timestamp: ts, Price: price})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points, nil
}

// NormalizeGraphStats returns the graph job statistics carried by env.
func NormalizeGraphStats(env entity.Envelope) (entity.GraphStats, error) {
	rec, err := selectObject(env, ResourceGraphStats, "stats")
	if err != nil {
		return entity.GraphStats{}, err
	}
	stats := entity.GraphStats{
		TotalTokens: int64(numberField(rec, "totalTokens", "tokens")),
		ActiveCrons: int64(numberField(rec, "activeCrons", "activeCronJobs", "cronActive")),
		TotalPoints: int64(numberField(rec, "totalPoints", "points")),
	}
	if v, ok := utils.FirstKey(rec, "lastUpdated", "updatedAt"); ok {
		stats.LastUpdated, _ = parseTime(v)
	}
	return stats, nil
}

// NormalizeAction interprets the response of an administrative command. It never
// fails: a 2xx response with an empty or unrecognized body counts as success.
func NormalizeAction(env entity.Envelope) entity.ActionResult {
	if s, ok := env.(string); ok {
		return entity.ActionResult{Success: true, Message: s}
	}
	v, _, ok := SelectShape(env, Object, "result")
	if !ok {
		return entity.ActionResult{Success: true}
	}
	rec, _ := utils.AsMap(v)
	res := entity.ActionResult{Success: true, Message: utils.StringField(rec, "message", "msg")}
	outer, _ := utils.AsMap(env)
	switch {
	case rec["success"] != nil:
		res.Success = utils.BoolField(rec, "success")
	case outer["success"] != nil:
		res.Success = utils.BoolField(outer, "success")
	}
	if res.Message == "" && outer != nil {
		res.Message = utils.StringField(outer, "message", "msg")
	}
	return res
}

// parseTime accepts unix seconds, unix milliseconds, numeric strings and RFC 3339.
func parseTime(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), true
		}
	}
	n, ok := utils.ParseNumeric(v)
	if !ok || n <= 0 {
		return time.Time{}, false
	}
	if n >= 1e12 {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	return time.Unix(int64(n), 0).UTC(), true
}
