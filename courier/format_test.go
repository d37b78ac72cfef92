package courier

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"local with leading zero", "03001234567", "923001234567"},
		{"dashed local", "0300-1234567", "923001234567"},
		{"international plus", "+92 300 1234567", "923001234567"},
		{"international zeros", "00923001234567", "923001234567"},
		{"already normalized", "923001234567", "923001234567"},
		{"bare subscriber number", "3001234567", "923001234567"},
		{"empty", "", ""},
		{"punctuation only", "()- ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		min, max int
		want     string
	}{
		{"within bounds", "Ali Raza", 3, 30, "Ali Raza"},
		{"truncated", "Muhammad Abdullah Khan Niazi Junior", 3, 20, "Muhammad Abdullah Kh"},
		{"padded", "Al", 5, 30, "Al..."},
		{"trimmed then padded", "  Al  ", 5, 30, "Al..."},
		{"empty padded", "", 3, 30, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampName(tt.in, tt.min, tt.max)
			if got != tt.want {
				t.Errorf("ClampName(%q, %d, %d) = %q, want %q", tt.in, tt.min, tt.max, got, tt.want)
			}
			if len([]rune(got)) < tt.min || len([]rune(got)) > tt.max {
				t.Errorf("ClampName result %q outside bounds [%d, %d]", got, tt.min, tt.max)
			}
		})
	}
}
