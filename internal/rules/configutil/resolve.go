// Package configutil resolves and validates rule options.
package configutil

import (
	"encoding/json"
	"fmt"
	"reflect"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/wharflab/reval/internal/rules"
)

// schemaCacheSize bounds the resolved schemas kept in memory. There is one
// schema per configurable rule plus the config file schema.
const schemaCacheSize = 32

var schemaCache = mustSchemaCache()

func mustSchemaCache() *lru.Cache[string, *gjsonschema.Resolved] {
	c, err := lru.New[string, *gjsonschema.Resolved](schemaCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve decodes opts into a T and fills every field opts left unset from
// defaults. Nil or empty opts return defaults as is, and so do opts that
// fail to decode.
//
// A slice or map field counts as unset only when nil: an explicit empty
// list in the config clears the default.
func Resolve[T any](opts map[string]any, defaults T) T {
	if len(opts) == 0 {
		return defaults
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return defaults
	}
	var out T
	if err := k.Unmarshal("", &out); err != nil {
		return defaults
	}
	fillUnset(&out, defaults)
	return out
}

// Coerce turns whatever a rule received as its config into a T. It accepts
// T, *T and a raw option map; anything else yields defaults.
func Coerce[T any](config any, defaults T) T {
	switch v := config.(type) {
	case T:
		return v
	case *T:
		if v != nil {
			return *v
		}
	case map[string]any:
		return Resolve(v, defaults)
	}
	return defaults
}

func fillUnset[T any](out *T, defaults T) {
	dst := reflect.ValueOf(out).Elem()
	if dst.Kind() != reflect.Struct {
		return
	}
	src := reflect.ValueOf(defaults)
	for i := range dst.NumField() {
		f := dst.Field(i)
		if !f.CanSet() || f.Kind() == reflect.Struct || f.Kind() == reflect.Array {
			continue
		}
		if f.IsZero() {
			f.Set(src.Field(i))
		}
	}
}

// ValidateRuleOptions checks config against the rule's schema. A rule that
// takes no options accepts only an empty option set.
func ValidateRuleOptions(rule rules.Rule, config any) error {
	if isNil(config) {
		return nil
	}
	code := rule.Metadata().Code
	cr, ok := rule.(rules.ConfigurableRule)
	if !ok {
		if m, isMap := config.(map[string]any); isMap && len(m) == 0 {
			return nil
		}
		return fmt.Errorf("rule %s does not accept options", code)
	}
	if err := ValidateWithSchema(config, cr.Schema()); err != nil {
		return fmt.Errorf("invalid options for rule %s: %w", code, err)
	}
	return nil
}

// ValidateWithSchema validates config against a JSON Schema given as a map.
// A nil schema accepts everything.
func ValidateWithSchema(config any, schema map[string]any) error {
	if schema == nil || isNil(config) {
		return nil
	}
	resolved, err := resolvedSchema(schema)
	if err != nil {
		return err
	}

	// The validator wants plain JSON values, not TOML's int64 or typed
	// slices, so round-trip the config through JSON.
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return resolved.Validate(doc)
}

func resolvedSchema(schema map[string]any) (*gjsonschema.Resolved, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	key := string(raw)
	if r, ok := schemaCache.Get(key); ok {
		return r, nil
	}

	var s gjsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	r, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	schemaCache.Add(key, r)
	return r, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
