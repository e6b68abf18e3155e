package ai

import (
	"testing"
)

func TestUnmarshalFlexible_FilterVariants(t *testing.T) {
	type dimRange struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}

	tests := []struct {
		name  string
		input string
		want  map[string]dimRange
	}{
		{
			name:  "valid json object",
			input: `{"complexity":{"min":0.1,"max":0.5}}`,
			want:  map[string]dimRange{"complexity": {Min: 0.1, Max: 0.5}},
		},
		{
			name:  "unquoted keys and single quotes",
			input: `{complexity: {min: 0.1, max: 0.5}}`,
			want:  map[string]dimRange{"complexity": {Min: 0.1, Max: 0.5}},
		},
		{
			name:  "trailing comma",
			input: `{"complexity":{"min":0.1,"max":0.5},}`,
			want:  map[string]dimRange{"complexity": {Min: 0.1, Max: 0.5}},
		},
		{
			name:  "missing endbracket",
			input: `{"complexity":{"min":0.1,"max":0.5`,
			want:  map[string]dimRange{"complexity": {Min: 0.1, Max: 0.5}},
		},
		{
			name:  "stringified object",
			input: `"{ \"complexity\": { \"min\": 0.1, \"max\": 0.5 } }"`,
			want:  map[string]dimRange{"complexity": {Min: 0.1, Max: 0.5}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := make(map[string]dimRange)
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
			for k, w := range tc.want {
				g, ok := got[k]
				if !ok || g.Min != w.Min || g.Max != w.Max {
					t.Fatalf("UnmarshalFlexible() [%s] got = %+v, want %+v", k, g, w)
				}
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	got := make(map[string]any)
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestTruncateToTokens(t *testing.T) {
	input := "alpha beta gamma delta epsilon zeta eta theta"

	if got := TruncateToTokens(input, 0); got != input {
		t.Fatalf("TruncateToTokens() with zero budget should pass through, got %q", got)
	}
	if got := TruncateToTokens(input, 1000); got != input {
		t.Fatalf("TruncateToTokens() within budget should pass through, got %q", got)
	}

	got := TruncateToTokens(input, 3)
	if len(got) >= len(input) {
		t.Fatalf("TruncateToTokens() should shorten input, got %q", got)
	}
}
