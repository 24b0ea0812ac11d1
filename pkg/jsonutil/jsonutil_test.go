package jsonutil

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexibleStringList(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  []string
	}{
		{
			name:  "array value",
			input: json.RawMessage(`["coton", "bleu"]`),
			want:  []string{"coton", "bleu"},
		},
		{
			name:  "comma-joined string",
			input: json.RawMessage(`"coton, bleu,  rayé"`),
			want:  []string{"coton", "bleu", "rayé"},
		},
		{
			name:  "single string",
			input: json.RawMessage(`"linen"`),
			want:  []string{"linen"},
		},
		{
			name:  "empty string",
			input: json.RawMessage(`""`),
			want:  nil,
		},
		{
			name:  "null value",
			input: json.RawMessage(`null`),
			want:  nil,
		},
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name:  "array with blanks",
			input: json.RawMessage(`["silk", "", "  "]`),
			want:  []string{"silk"},
		},
		{
			name:  "unexpected shape",
			input: json.RawMessage(`42`),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleStringList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlexibleStringList(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
