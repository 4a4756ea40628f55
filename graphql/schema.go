// Package graphql assembles the root schema from the dashboard modules.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/graphql/modules/dashboard"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/simulation"
)

// CreateSchema builds the executable schema over the running services.
func CreateSchema(store *database.Store, mgr *simulation.Manager, mapper *health.Mapper) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range dashboard.GetQueryFields(store, mgr, mapper) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
