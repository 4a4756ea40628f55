package simulator

import "github.com/hydrosense/phealth-backend/model"

// EventAdjustment rescales readings after a scripted incident day. Zero
// scale factors mean "leave unchanged" so sparse YAML stays readable.
type EventAdjustment struct {
	AfterDay                int     `yaml:"after_day" json:"after_day"`
	UpstreamPressureScale   float64 `yaml:"upstream_pressure_scale,omitempty" json:"upstream_pressure_scale,omitempty"`
	DownstreamPressureScale float64 `yaml:"downstream_pressure_scale,omitempty" json:"downstream_pressure_scale,omitempty"`
	UpstreamFlowScale       float64 `yaml:"upstream_flow_scale,omitempty" json:"upstream_flow_scale,omitempty"`
	DownstreamFlowScale     float64 `yaml:"downstream_flow_scale,omitempty" json:"downstream_flow_scale,omitempty"`
	RULScale                float64 `yaml:"rul_scale,omitempty" json:"rul_scale,omitempty"`
}

// Adjustments shapes a raw simulated history into its demo scenario: global
// RUL rescaling and clipping, plus an optional incident event.
type Adjustments struct {
	RULScale float64          `yaml:"rul_scale,omitempty" json:"rul_scale,omitempty"`
	MinRUL   float64          `yaml:"min_rul,omitempty" json:"min_rul,omitempty"`
	Event    *EventAdjustment `yaml:"event,omitempty" json:"event,omitempty"`
}

func scale(v, factor float64) float64 {
	if factor == 0 {
		return v
	}
	return v * factor
}

// ApplyAdjustments mutates records in place. Global RUL scaling runs first,
// then the event rescaling, then the RUL floor.
func ApplyAdjustments(records []model.DailyRecord, adj *Adjustments) {
	if adj == nil {
		return
	}
	for i := range records {
		rec := &records[i]
		rec.RUL = scale(rec.RUL, adj.RULScale)

		if ev := adj.Event; ev != nil && rec.Day > ev.AfterDay {
			rec.Upstream.Pressure = scale(rec.Upstream.Pressure, ev.UpstreamPressureScale)
			rec.Downstream.Pressure = scale(rec.Downstream.Pressure, ev.DownstreamPressureScale)
			rec.Upstream.Flow = scale(rec.Upstream.Flow, ev.UpstreamFlowScale)
			rec.Downstream.Flow = scale(rec.Downstream.Flow, ev.DownstreamFlowScale)
			rec.RUL = scale(rec.RUL, ev.RULScale)
		}

		if rec.RUL < adj.MinRUL {
			rec.RUL = adj.MinRUL
		}
	}
}
