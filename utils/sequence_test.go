package utils

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		prefix string
		year   int
		seq    int
		want   string
	}{
		{"DC", 2024, 1, "DC-2024-0001"},
		{"DC", 2024, 8, "DC-2024-0008"},
		{"PO", 2025, 123, "PO-2025-0123"},
		{"PO", 2025, 10000, "PO-2025-10000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.prefix, tt.year, tt.seq); got != tt.want {
			t.Errorf("FormatNumber(%q, %d, %d) = %q, want %q", tt.prefix, tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestNumberPrefix(t *testing.T) {
	if got := NumberPrefix("DC", 2024); got != "DC-2024-" {
		t.Errorf("NumberPrefix = %q, want DC-2024-", got)
	}
}

func TestNumericSuffix(t *testing.T) {
	tests := []struct {
		number string
		want   int
	}{
		{"DC-2024-0007", 7},
		{"PO-2024-0123", 123},
		{"DC-2024-", 0},
		{"no-dashes-here", 0},
		{"plain", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := NumericSuffix(tt.number); got != tt.want {
			t.Errorf("NumericSuffix(%q) = %d, want %d", tt.number, got, tt.want)
		}
	}
}
