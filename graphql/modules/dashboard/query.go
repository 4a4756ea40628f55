// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/simulation"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(store *database.Store, mgr *simulation.Manager, mapper *health.Mapper) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"systemOverview": &graphql.Field{
			Type: SystemOverviewType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveSystemOverview(mgr)
			},
		},
		// Section 2: Per-segment detail card
		"segmentSnapshot": &graphql.Field{
			Type: SegmentSnapshotType,
			Args: graphql.FieldConfigArgument{
				"segmentId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveSegmentSnapshot(mgr, p.Args["segmentId"].(string))
			},
		},
		// Section 3: Network map (all segments)
		"segmentSnapshots": &graphql.Field{
			Type: graphql.NewList(SegmentSnapshotType),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveAllSnapshots(mgr)
			},
		},
		// Section 4: Trend charts
		"segmentHistory": &graphql.Field{
			Type: graphql.NewList(HistoryPointType),
			Args: graphql.FieldConfigArgument{
				"segmentId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"days":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 180},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveSegmentHistory(store, mgr, mapper,
					p.Args["segmentId"].(string), p.Args["days"].(int))
			},
		},
		// Section 5: Category pie chart
		"categoryDistribution": &graphql.Field{
			Type: graphql.NewList(CategoryCountType),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveCategoryDistribution(mgr)
			},
		},
	}
}
