package graphql

import (
	"github.com/graphql-go/graphql"
)

// Schema creates and returns the GraphQL schema of the stemming service
func Schema(svc Services) (graphql.Schema, error) {
	stemResultType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "StemResult",
		Description: "A word with its raw and corrected stems",
		Fields: graphql.Fields{
			"word":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"stem":      &graphql.Field{Type: graphql.NewNonNull(graphql.String), Description: "Output of the five step pipeline"},
			"corrected": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Description: "Stem after the correction table"},
		},
	})

	stepType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Step",
		Fields: graphql.Fields{
			"step":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"output":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"changed": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	traceType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Trace",
		Description: "Intermediate results of every pipeline step",
		Fields: graphql.Fields{
			"word":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"pattern": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Description: "C/V pattern of the lower-cased word"},
			"measure": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"bypass":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean), Description: "True when the word was too short to stem"},
			"steps":   &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(stepType))},
			"stem":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	tokenType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"original":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"normalized": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"stem":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"position":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	comparisonType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Comparison",
		Description: "One word reduced by every available stemmer",
		Fields: graphql.Fields{
			"word":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"raw":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"corrected": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"porter":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"snowball":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"lemma":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"singular":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"agrees":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	vectorsType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Vectors",
		Description: "A document-term matrix",
		Fields: graphql.Fields{
			"mode":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"features": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"matrix":   &graphql.Field{Type: JSONScalar, Description: "Rows of counts or TF-IDF weights"},
		},
	})

	documentType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Document",
		Description: "A document stored in the corpus",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"text":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	hitType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchHit",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"score":    &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"document": &graphql.Field{Type: documentType},
		},
	})

	resolver := NewResolver(svc)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Query",
		Description: "Root query type",
		Fields: graphql.Fields{
			"stem": &graphql.Field{
				Type:        stemResultType,
				Description: "Stem a single word",
				Args: graphql.FieldConfigArgument{
					"word":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"correct": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true},
				},
				Resolve: resolver.Stem,
			},
			"trace": &graphql.Field{
				Type:        traceType,
				Description: "Stem a word and report every step",
				Args: graphql.FieldConfigArgument{
					"word": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver.Trace,
			},
			"correct": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Apply the correction table to a stem",
				Args: graphql.FieldConfigArgument{
					"original": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"stemmed":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver.Correct,
			},
			"corrections": &graphql.Field{
				Type:        JSONScalar,
				Description: "The correction table, word to replacement stem",
				Resolve:     resolver.Corrections,
			},
			"analyze": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(tokenType)),
				Description: "Tokenize, drop stop words and stem",
				Args: graphql.FieldConfigArgument{
					"text":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"correct": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: resolver.Analyze,
			},
			"compare": &graphql.Field{
				Type:        comparisonType,
				Description: "Compare this stemmer with the reference stemmers",
				Args: graphql.FieldConfigArgument{
					"word": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver.Compare,
			},
			"vectorize": &graphql.Field{
				Type:        vectorsType,
				Description: "Build a bag-of-words or TF-IDF matrix",
				Args: graphql.FieldConfigArgument{
					"documents": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
					"mode":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "bow"},
					"stem":      &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: resolver.Vectorize,
			},
			"search": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(hitType)),
				Description: "Rank corpus documents against a query",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: resolver.Search,
			},
			"document": &graphql.Field{
				Type:        documentType,
				Description: "Fetch a corpus document by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver.Document,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Mutation",
		Description: "Root mutation type",
		Fields: graphql.Fields{
			"addDocument": &graphql.Field{
				Type:        documentType,
				Description: "Store and index a document. Omit id to generate one",
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.String},
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver.AddDocument,
			},
			"deleteDocument": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Boolean),
				Description: "Remove a document from the corpus",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver.DeleteDocument,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
