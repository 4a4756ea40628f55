// Package dashboard defines the GraphQL types for the monitoring dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// SystemOverviewType represents the fleet-level metrics for the top cards
var SystemOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SystemOverview",
	Fields: graphql.Fields{
		"day":            &graphql.Field{Type: graphql.Int},
		"state":          &graphql.Field{Type: graphql.String},
		"speed":          &graphql.Field{Type: graphql.Float},
		"total_segments": &graphql.Field{Type: graphql.Int},
		"average_score":  &graphql.Field{Type: graphql.Float},
		"critical_count": &graphql.Field{Type: graphql.Int},
		"warning_count":  &graphql.Field{Type: graphql.Int},
		"healthy_count":  &graphql.Field{Type: graphql.Int},
	},
})

// DriverType represents one attributed degradation cause
var DriverType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Driver",
	Fields: graphql.Fields{
		"name":     &graphql.Field{Type: graphql.String},
		"impact":   &graphql.Field{Type: graphql.Int},
		"severity": &graphql.Field{Type: graphql.String},
		"details":  &graphql.Field{Type: graphql.String},
		"trend":    &graphql.Field{Type: graphql.String},
		"timeline": &graphql.Field{Type: graphql.String},
		"color":    &graphql.Field{Type: graphql.String},
	},
})

// SegmentSnapshotType represents the display-ready state of one segment
var SegmentSnapshotType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SegmentSnapshot",
	Fields: graphql.Fields{
		"segment_id":   &graphql.Field{Type: graphql.String},
		"rul":          &graphql.Field{Type: graphql.Float},
		"health_score": &graphql.Field{Type: graphql.Float},
		"category":     &graphql.Field{Type: graphql.String},
		"display_text": &graphql.Field{Type: graphql.String},
		"color":        &graphql.Field{Type: graphql.String},
		"urgency":      &graphql.Field{Type: graphql.String},
		"status":       &graphql.Field{Type: graphql.String},
		"status_color": &graphql.Field{Type: graphql.String},
		"summary":      &graphql.Field{Type: graphql.String},
		"drivers":      &graphql.Field{Type: graphql.NewList(DriverType)},
	},
})

// HistoryPointType represents one chart row of a segment's scored history
var HistoryPointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "HistoryPoint",
	Fields: graphql.Fields{
		"day":       &graphql.Field{Type: graphql.String},
		"score":     &graphql.Field{Type: graphql.Float},
		"rul":       &graphql.Field{Type: graphql.Float},
		"corrosion": &graphql.Field{Type: graphql.Float},
	},
})

// CategoryCountType represents the segment count for one RUL category
var CategoryCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CategoryCount",
	Fields: graphql.Fields{
		"category": &graphql.Field{Type: graphql.String},
		"count":    &graphql.Field{Type: graphql.Int},
	},
})
