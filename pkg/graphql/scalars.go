package graphql

import (
	"encoding/json"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// JSONScalar carries arbitrary JSON values such as matrices and the
// correction table.
var JSONScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "The `JSON` scalar type represents JSON values as specified by ECMA-404",
	Serialize: func(value any) any {
		return value
	},
	ParseValue: func(value any) any {
		if s, ok := value.(string); ok {
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				return nil
			}
			return decoded
		}
		return value
	},
	ParseLiteral: parseLiteral,
})

func parseLiteral(valueAST ast.Value) any {
	switch v := valueAST.(type) {
	case *ast.ObjectValue:
		obj := make(map[string]any, len(v.Fields))
		for _, field := range v.Fields {
			obj[field.Name.Value] = parseLiteral(field.Value)
		}
		return obj
	case *ast.ListValue:
		list := make([]any, len(v.Values))
		for i, item := range v.Values {
			list[i] = parseLiteral(item)
		}
		return list
	case *ast.IntValue:
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case *ast.FloatValue:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil
		}
		return f
	case *ast.StringValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	default:
		return nil
	}
}
