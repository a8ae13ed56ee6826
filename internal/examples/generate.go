package examples

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lucasjones/reggen"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// maxRegexSamples is the number of candidate strings reggen generates
// before filtering against the original anchored pattern.
const maxRegexSamples = 1000

// GenerateValues produces the non-empty set of concrete candidate values for
// schema, in source order: example, then default, then discriminator/allOf
// expansion for composed schemas, and otherwise the type-driven generator.
func GenerateValues(schema *openapi.Schema, components *openapi.Components) ([]input.Value, error) {
	schema, err := components.ResolveSchema(schema)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return []input.Value{input.Null()}, nil
	}

	if schema.Example != nil {
		return []input.Value{fromAny(schema.Example)}, nil
	}
	if schema.Default != nil {
		return []input.Value{fromAny(schema.Default)}, nil
	}
	if schema.Discriminator != nil && (len(schema.OneOf) > 0 || len(schema.AnyOf) > 0) {
		return discriminatorExpansion(schema, components)
	}
	if len(schema.AllOf) > 0 {
		return allOfExpansion(schema, components)
	}
	return typeDrivenValues(schema, components)
}

func fromAny(v any) input.Value {
	switch t := v.(type) {
	case nil:
		return input.Null()
	case bool:
		return input.Bool(t)
	case string:
		return input.String(t)
	case float64:
		return input.Number(t)
	case int:
		return input.Number(float64(t))
	case []any:
		items := make([]input.Value, len(t))
		for i, e := range t {
			items[i] = fromAny(e)
		}
		return input.Array(items...)
	case map[string]any:
		obj := input.NewObject()
		for k, e := range t {
			obj.Object.Set(k, fromAny(e))
		}
		return obj
	default:
		return input.Null()
	}
}

func typeDrivenValues(schema *openapi.Schema, components *openapi.Components) ([]input.Value, error) {
	switch {
	case schema.IsNumeric():
		return numericInterestingValues(schema), nil
	case schema.IsBoolean():
		return []input.Value{input.Bool(true), input.Bool(false)}, nil
	case schema.IsString():
		return stringInterestingValues(schema), nil
	case schema.IsArray():
		items, err := GenerateValues(schema.Items, components)
		if err != nil {
			return nil, err
		}
		out := make([]input.Value, len(items))
		for i, it := range items {
			out[i] = input.Array(it)
		}
		return out, nil
	case schema.IsObject():
		return objectValues(schema, components)
	default:
		return []input.Value{input.Null()}, nil
	}
}

func numericInterestingValues(schema *openapi.Schema) []input.Value {
	candidates := []float64{0, 1, -1, math.Pi}
	if schema.Minimum != nil {
		candidates = append(candidates, *schema.Minimum)
	}
	if schema.Maximum != nil {
		candidates = append(candidates, *schema.Maximum)
	}
	if schema.MultipleOf != nil {
		candidates = append(candidates, *schema.MultipleOf, -*schema.MultipleOf)
	}

	var out []input.Value
	seen := make(map[float64]bool)
	for _, c := range candidates {
		if schema.Minimum != nil && c < *schema.Minimum {
			continue
		}
		if schema.Maximum != nil && c > *schema.Maximum {
			continue
		}
		if schema.IsInteger() {
			c = math.Trunc(c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, input.Number(c))
	}
	if len(out) == 0 {
		out = append(out, input.Number(0))
	}
	return out
}

func stringInterestingValues(schema *openapi.Schema) []input.Value {
	var out []input.Value
	if len(schema.Enum) > 0 {
		for _, e := range schema.Enum {
			if s, ok := e.(string); ok {
				out = append(out, input.String(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if schema.Pattern != "" {
		if samples := regexSamples(schema.Pattern); len(samples) > 0 {
			out = samples
		}
	}
	if len(out) == 0 {
		if v, ok := formatCannedValue(schema.Format); ok {
			out = append(out, input.String(v))
		}
	}
	if len(out) == 0 {
		out = []input.Value{input.String(""), input.String("A"), input.String("🎵")}
	}
	for i, v := range out {
		out[i] = input.String(enforceLength(v.String, schema))
	}
	return out
}

func regexSamples(pattern string) []input.Value {
	anchored, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	generator, err := reggen.NewGenerator(pattern)
	if err != nil {
		return nil
	}
	var out []input.Value
	seen := make(map[string]bool)
	for i := 0; i < maxRegexSamples && len(out) < 16; i++ {
		candidate := generator.Generate(20)
		if seen[candidate] || !anchored.MatchString(candidate) {
			continue
		}
		seen[candidate] = true
		out = append(out, input.String(candidate))
	}
	return out
}

func formatCannedValue(format string) (string, bool) {
	switch format {
	case "date":
		return time.Now().UTC().Format("2006-01-02"), true
	case "date-time":
		return time.Now().UTC().Format(time.RFC3339), true
	case "byte":
		return "d3VwcGllZnV6eg==", true
	case "email":
		return "fuzz@example.com", true
	case "uuid":
		return uuid.New().String(), true
	case "ipv4":
		return "192.0.2.1", true
	case "hostname":
		return "example.invalid", true
	default:
		return "", false
	}
}

func enforceLength(s string, schema *openapi.Schema) string {
	runes := []rune(s)
	if schema.MinLength != nil {
		for len(runes) < *schema.MinLength {
			runes = append(runes, 'A')
		}
	}
	if schema.MaxLength != nil && len(runes) > *schema.MaxLength {
		runes = runes[:*schema.MaxLength]
	}
	return string(runes)
}

func objectValues(schema *openapi.Schema, components *openapi.Components) ([]input.Value, error) {
	obj := input.NewObject()
	if schema.Properties != nil {
		for _, kv := range schema.Properties.Items {
			variants, err := GenerateValues(kv.Value, components)
			if err != nil {
				return nil, err
			}
			if len(variants) > 0 {
				obj.Object.Set(kv.Key, variants[0])
			}
		}
	}
	return []input.Value{obj}, nil
}

func allOfExpansion(schema *openapi.Schema, components *openapi.Components) ([]input.Value, error) {
	merged := input.NewObject()
	for _, clause := range schema.AllOf {
		variants, err := GenerateValues(clause, components)
		if err != nil {
			return nil, err
		}
		if len(variants) == 0 || variants[0].Kind != input.KindObject || variants[0].Object == nil {
			continue
		}
		for i, name := range variants[0].Object.Names {
			merged.Object.Set(name, variants[0].Object.Values[i])
		}
	}
	return []input.Value{merged}, nil
}

func discriminatorExpansion(schema *openapi.Schema, components *openapi.Components) ([]input.Value, error) {
	variants := schema.OneOf
	if len(variants) == 0 {
		variants = schema.AnyOf
	}
	var out []input.Value
	for i, ref := range variants {
		clauseValues, err := GenerateValues(ref, components)
		if err != nil {
			return nil, err
		}
		if len(clauseValues) == 0 || clauseValues[0].Kind != input.KindObject {
			continue
		}
		v := clauseValues[0]
		tagValue := discriminatorTagFor(schema.Discriminator, i)
		v.Object.Set(schema.Discriminator.PropertyName, input.String(tagValue))
		out = append(out, v)
	}
	if len(out) == 0 {
		out = append(out, input.NewObject())
	}
	return out, nil
}

func discriminatorTagFor(d *openapi.Discriminator, index int) string {
	if d.Mapping != nil {
		for i, kv := range d.Mapping.Items {
			if i == index {
				return kv.Key
			}
		}
	}
	return strconv.Itoa(index)
}
