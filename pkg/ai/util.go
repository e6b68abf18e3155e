package ai

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
	"github.com/pkoukk/tiktoken-go"
)

const truncateEncoding = "cl100k_base"

// GenerateSchema creates a JSON Schema from the given Go type. It uses
// reflection to inspect the type structure and generates a schema suitable
// for documenting structured request arguments to API callers.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// UnmarshalFlexible attempts to unmarshal JSON into the target with fallback
// strategies: standard unmarshaling first, then double-encoded JSON strings,
// then a repair pass for malformed JSON. Useful at the HTTP boundary where
// LLM-driven callers produce sloppy filter arguments.
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var doubleEncoded string
	if err := json.Unmarshal([]byte(input), &doubleEncoded); err == nil {
		if err := json.Unmarshal([]byte(doubleEncoded), out); err == nil {
			return nil
		}
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), out)
}

// TruncateToTokens trims the input to at most maxTokens tokens of the
// embedding tokenizer. Inputs that already fit are returned unchanged; if the
// tokenizer cannot be loaded the input passes through untrimmed.
func TruncateToTokens(input string, maxTokens int) string {
	if maxTokens <= 0 {
		return input
	}

	enc, err := tiktoken.GetEncoding(truncateEncoding)
	if err != nil {
		return input
	}

	tokens := enc.Encode(input, nil, nil)
	if len(tokens) <= maxTokens {
		return input
	}
	return enc.Decode(tokens[:maxTokens])
}
