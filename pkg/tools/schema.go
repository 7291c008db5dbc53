package tools

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor строит JSONSchema параметров инструмента из Go структуры.
//
// Поля описываются тегами json и jsonschema:
//
//	type quoteArgs struct {
//	    Symbol string `json:"symbol" jsonschema:"required,description=Ticker symbol"`
//	}
//
// Ссылки ($ref) раскрываются, дополнительные свойства запрещены.
func SchemaFor[T any]() (JSONSchema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	var out JSONSchema
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	// Служебные поля генератора не нужны в Function Calling API
	delete(out, "$schema")
	delete(out, "$id")
	if _, ok := out["properties"]; !ok {
		out["properties"] = map[string]any{}
	}
	return out, nil
}

// MustSchemaFor - SchemaFor для статически известных структур аргументов.
//
// Паникует только при ошибке в самой структуре (ошибка программиста).
func MustSchemaFor[T any]() JSONSchema {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}
