package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydrosense/phealth-backend/model"
)

func adjustFixture() []model.DailyRecord {
	return []model.DailyRecord{
		{Day: 159, Upstream: model.SensorReading{Pressure: 5.0, Flow: 100}, Downstream: model.SensorReading{Pressure: 4.8, Flow: 95}, RUL: 500},
		{Day: 160, Upstream: model.SensorReading{Pressure: 5.0, Flow: 100}, Downstream: model.SensorReading{Pressure: 4.8, Flow: 95}, RUL: 499},
		{Day: 161, Upstream: model.SensorReading{Pressure: 5.0, Flow: 100}, Downstream: model.SensorReading{Pressure: 4.8, Flow: 95}, RUL: 498},
	}
}

func TestApplyAdjustmentsNilIsNoop(t *testing.T) {
	records := adjustFixture()
	ApplyAdjustments(records, nil)
	assert.Equal(t, adjustFixture(), records)
}

func TestApplyAdjustmentsRULScaleAndFloor(t *testing.T) {
	records := adjustFixture()
	ApplyAdjustments(records, &Adjustments{RULScale: 0.7, MinRUL: 349.5})

	assert.InDelta(t, 350.0, records[0].RUL, 1e-9)
	assert.InDelta(t, 349.5, records[2].RUL, 1e-9, "floor clips the scaled value")
}

func TestApplyAdjustmentsEventOnlyAfterDay(t *testing.T) {
	records := adjustFixture()
	ApplyAdjustments(records, &Adjustments{
		Event: &EventAdjustment{
			AfterDay:                160,
			UpstreamPressureScale:   0.7,
			DownstreamPressureScale: 0.4,
			UpstreamFlowScale:       1.2,
			DownstreamFlowScale:     0.6,
			RULScale:                0.1,
		},
	})

	// Days at or before the event day are untouched.
	assert.Equal(t, 5.0, records[1].Upstream.Pressure)
	assert.Equal(t, 499.0, records[1].RUL)

	after := records[2]
	assert.InDelta(t, 3.5, after.Upstream.Pressure, 1e-9)
	assert.InDelta(t, 1.92, after.Downstream.Pressure, 1e-9)
	assert.InDelta(t, 120.0, after.Upstream.Flow, 1e-9)
	assert.InDelta(t, 57.0, after.Downstream.Flow, 1e-9)
	assert.InDelta(t, 49.8, after.RUL, 1e-9)
}

func TestApplyAdjustmentsZeroScalesLeaveValues(t *testing.T) {
	records := adjustFixture()
	ApplyAdjustments(records, &Adjustments{
		Event: &EventAdjustment{AfterDay: 160, DownstreamFlowScale: 0.6},
	})

	after := records[2]
	assert.Equal(t, 5.0, after.Upstream.Pressure)
	assert.Equal(t, 100.0, after.Upstream.Flow)
	assert.InDelta(t, 57.0, after.Downstream.Flow, 1e-9)
	assert.Equal(t, 498.0, after.RUL)
}
