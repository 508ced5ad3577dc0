package devgateway

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"shopstream/app/models"
)

// The GraphQL endpoint is a read-only data explorer for the admin
// console: ad-hoc product queries without new REST routes. All writes
// go through the REST API so change events keep flowing.

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":                  &graphql.Field{Type: graphql.Int},
		"title":               &graphql.Field{Type: graphql.String},
		"price":               &graphql.Field{Type: graphql.Float},
		"original_price":      &graphql.Field{Type: graphql.Float},
		"discount_percentage": &graphql.Field{Type: graphql.Float},
		"image":               &graphql.Field{Type: graphql.String},
		"rating":              &graphql.Field{Type: graphql.Float},
		"rating_count":        &graphql.Field{Type: graphql.Int},
		"category":            &graphql.Field{Type: graphql.String},
		"description":         &graphql.Field{Type: graphql.String},
		"stock":               &graphql.Field{Type: graphql.Int},
		"sku":                 &graphql.Field{Type: graphql.String},
	},
})

func (s *Server) buildSchema() (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := s.db.Order("created_at DESC, id DESC")
					if category, ok := p.Args["category"].(string); ok && category != "" {
						q = q.Where("category = ?", models.NormalizeCategory(category))
					}
					if search, ok := p.Args["search"].(string); ok && search != "" {
						like := "%" + search + "%"
						q = q.Where("title LIKE ? OR category LIKE ?", like, like)
					}
					var rows []models.Product
					if err := q.Find(&rows).Error; err != nil {
						return nil, err
					}
					return rows, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var row models.Product
					if err := s.db.First(&row, p.Args["id"]).Error; err != nil {
						return nil, err
					}
					return row, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

func (s *Server) graphql(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  in.Query,
		VariableValues: in.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
