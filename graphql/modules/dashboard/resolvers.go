package dashboard

import (
	"fmt"
	"math"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/simulation"
	"github.com/hydrosense/phealth-backend/model"
)

// historyWindowDays caps chart payloads to the trailing six months.
const historyWindowDays = 180

// ResolveSystemOverview aggregates the current tick into fleet metrics.
// Urgency buckets: critical stays critical, high is warning, the rest count
// as healthy.
func ResolveSystemOverview(mgr *simulation.Manager) (interface{}, error) {
	update := mgr.CurrentUpdate()

	var sum float64
	var critical, warning, healthy int
	for _, tick := range update.Segments {
		sum += tick.Snapshot.HealthScore
		switch tick.Snapshot.RULDisplay.Urgency {
		case "critical":
			critical++
		case "high":
			warning++
		default:
			healthy++
		}
	}

	avg := 0.0
	if len(update.Segments) > 0 {
		avg = math.Round(sum/float64(len(update.Segments))*10) / 10
	}

	return map[string]interface{}{
		"day":            update.Day,
		"state":          string(update.State),
		"speed":          update.Speed,
		"total_segments": len(update.Segments),
		"average_score":  avg,
		"critical_count": critical,
		"warning_count":  warning,
		"healthy_count":  healthy,
	}, nil
}

func snapshotMap(snap model.SegmentHealthSnapshot) map[string]interface{} {
	drivers := make([]map[string]interface{}, len(snap.Drivers))
	for i, d := range snap.Drivers {
		drivers[i] = map[string]interface{}{
			"name":     d.Name,
			"impact":   d.Impact,
			"severity": d.Severity,
			"details":  d.Details,
			"trend":    d.Trend,
			"timeline": d.Timeline,
			"color":    d.Color,
		}
	}
	return map[string]interface{}{
		"segment_id":   snap.SegmentID,
		"rul":          snap.RUL,
		"health_score": snap.HealthScore,
		"category":     snap.RULDisplay.Category,
		"display_text": snap.RULDisplay.DisplayText,
		"color":        snap.RULDisplay.Color,
		"urgency":      snap.RULDisplay.Urgency,
		"status":       snap.Status,
		"status_color": snap.StatusColor,
		"summary":      snap.Summary,
		"drivers":      drivers,
	}
}

// ResolveSegmentSnapshot returns the current-day view of one segment.
func ResolveSegmentSnapshot(mgr *simulation.Manager, segmentID string) (interface{}, error) {
	update := mgr.CurrentUpdate()
	tick, ok := update.Segments[segmentID]
	if !ok {
		return nil, fmt.Errorf("unknown segment %q", segmentID)
	}
	return snapshotMap(tick.Snapshot), nil
}

// ResolveAllSnapshots returns the current-day view of every segment, in
// catalog order.
func ResolveAllSnapshots(mgr *simulation.Manager) (interface{}, error) {
	update := mgr.CurrentUpdate()
	out := make([]map[string]interface{}, 0, len(update.Segments))
	for _, id := range mgr.SegmentIDs() {
		if tick, ok := update.Segments[id]; ok {
			out = append(out, snapshotMap(tick.Snapshot))
		}
	}
	return out, nil
}

// ResolveSegmentHistory returns the scored chart rows for one segment.
func ResolveSegmentHistory(store *database.Store, mgr *simulation.Manager,
	mapper *health.Mapper, segmentID string, days int) (interface{}, error) {
	records, err := store.History(segmentID, mgr.Day())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("unknown segment %q", segmentID)
	}

	if days <= 0 || days > historyWindowDays {
		days = historyWindowDays
	}
	if len(records) > days {
		records = records[len(records)-days:]
	}

	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		out[i] = map[string]interface{}{
			"day":       fmt.Sprintf("Day %d", rec.Day),
			"score":     math.Round(mapper.HealthScore(segmentID, rec.RUL)*10) / 10,
			"rul":       math.Round(rec.RUL*10) / 10,
			"corrosion": math.Round(rec.Upstream.Corrosion*10000) / 10000,
		}
	}
	return out, nil
}

// ResolveCategoryDistribution buckets segments by their RUL category.
func ResolveCategoryDistribution(mgr *simulation.Manager) (interface{}, error) {
	update := mgr.CurrentUpdate()

	counts := make(map[string]int)
	for _, tick := range update.Segments {
		counts[tick.Snapshot.RULDisplay.Category]++
	}

	// Fixed order keeps the chart legend stable across ticks.
	order := []string{"Excellent", "Good", "Fair", "Caution", "Warning", "Critical", "URGENT"}
	out := make([]map[string]interface{}, 0, len(order))
	for _, cat := range order {
		if n, ok := counts[cat]; ok {
			out = append(out, map[string]interface{}{"category": cat, "count": n})
		}
	}
	return out, nil
}
