package sources

import (
	"strings"
	"testing"
)

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"auto json", `{"name":"a","level":2}`, FormatAuto},
		{"auto yaml", "name: a\nlevel: 2\n", FormatAuto},
		{"json", `{"name":"a","level":2}`, FormatJSON},
		{"yaml", "name: a\nlevel: 2\n", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode[settings]([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if got.Name != "a" || got.Level != 2 {
				t.Errorf("decode() = %+v", got)
			}
		})
	}
}

func TestDecodeWrongFormat(t *testing.T) {
	_, err := decode[settings]([]byte("name: a\n"), FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "expected JSON") {
		t.Errorf("decode() error = %v, want JSON error", err)
	}
}

func TestDecodeValidates(t *testing.T) {
	_, err := decode[settings]([]byte(`{"level":1}`), FormatAuto)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("decode() error = %v, want validation error", err)
	}

	_, err = decode[*settings]([]byte(`{"name":"a","level":-1}`), FormatAuto)
	if err == nil {
		t.Error("decode() into pointer should validate")
	}
}

func TestDecodeScalars(t *testing.T) {
	n, err := decode[int]([]byte("42"), FormatAuto)
	if err != nil || n != 42 {
		t.Errorf("decode() = %d, %v", n, err)
	}

	list, err := decode[[]string]([]byte(`["a","b"]`), FormatAuto)
	if err != nil || len(list) != 2 {
		t.Errorf("decode() = %v, %v", list, err)
	}
}

func TestFormatString(t *testing.T) {
	if FormatAuto.String() != "auto" || FormatJSON.String() != "json" || FormatYAML.String() != "yaml" {
		t.Error("unexpected format names")
	}
}
