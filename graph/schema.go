// Package graph serves the bakery tables over GraphQL.
package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/ridoystarlord/bakery/entities"
)

var Schema string = `
		schema {
			query: Query
			mutation: Mutation
		}

		type Query {
			hello: String!
			bakeries: [Bakery!]!
			bakery(id: Int!): Bakery
			chefs: [Chef!]!
			chef(id: Int!): Chef
		}

		type Mutation {
			addBakery(name: String!): Bakery!
			addChef(name: String!, bakeryId: Int!, contactDetails: String): Chef!
			updateBakery(id: Int!, name: String, profitMargin: Float): Bakery!
			deleteChef(id: Int!): Boolean!
			deleteBakery(id: Int!): Boolean!
		}

		type Bakery {
			id: Int!
			name: String!
			profitMargin: Float!
			chefs: [Chef!]!
		}

		type Chef {
			id: Int!
			name: String!
			contactDetails: String
			bakeryId: Int!
			bakery: Bakery
		}
`

// NewSchema parses Schema against a resolver backed by store.
func NewSchema(store *entities.Store, log *zap.Logger, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, &Resolver{store: store, log: log}, opts...)
}
