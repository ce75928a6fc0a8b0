package config

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/marmos91/xdrkit/internal/bytesize"
)

// JSONSchema describes the configuration file, for editor completion and
// external validation.
func JSONSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
		Mapper:                     mapType,
	}

	schema := reflector.Reflect(&Config{})
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "xdrkit configuration"
	schema.Description = "Configuration schema for the xdrkit command line tool"
	return schema
}

// mapType lets sizes be written as numbers or strings such as "1Mi".
func mapType(t reflect.Type) *jsonschema.Schema {
	if t != reflect.TypeOf(bytesize.ByteSize(0)) {
		return nil
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string", Pattern: `^\s*\d+(\.\d+)?\s*([KMG]i?B?|B)?\s*$`},
		},
	}
}
