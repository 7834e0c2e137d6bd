package core

import (
	"bytes"
	"io"
	"testing"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("Property Name,Distance")...),
			expected: "Property Name,Distance",
		},
		{
			name:     "file without BOM",
			input:    []byte("Property Name,Distance"),
			expected: "Property Name,Distance",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "shorter than BOM",
			input:    []byte("a"),
			expected: "a",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  Encoding
	}{
		{"ascii", []byte("Name,Distance\nA,1\n"), EncodingUTF8},
		{"utf-8 multibyte", []byte("Name\nCafé Row\n"), EncodingUTF8},
		{"utf-8 with BOM", append([]byte{0xEF, 0xBB, 0xBF}, "Name"...), EncodingUTF8},
		{"latin-1 e acute", []byte{'C', 'a', 'f', 0xE9}, EncodingLatin1},
		{"empty", nil, EncodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEncoding(tt.input); got != tt.want {
				t.Errorf("DetectEncoding() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTextReader(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantEnc Encoding
	}{
		{
			name:    "utf-8 passes through",
			input:   []byte("Café Row,2"),
			want:    "Café Row,2",
			wantEnc: EncodingUTF8,
		},
		{
			name:    "utf-8 BOM removed",
			input:   append([]byte{0xEF, 0xBB, 0xBF}, "Name"...),
			want:    "Name",
			wantEnc: EncodingUTF8,
		},
		{
			name:    "latin-1 decoded",
			input:   []byte{'C', 'a', 'f', 0xE9, ' ', 'R', 'o', 'w', ',', '2'},
			want:    "Café Row,2",
			wantEnc: EncodingLatin1,
		},
		{
			name:    "latin-1 high bytes",
			input:   []byte{0xC5, 'r', 'h', 'u', 's', 0xA0, 0xBD},
			want:    "Århus\u00a0½",
			wantEnc: EncodingLatin1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, enc := NewTextReader(tt.input)
			if enc != tt.wantEnc {
				t.Errorf("encoding = %q, want %q", enc, tt.wantEnc)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}
