package directory

import (
	"testing"
	"time"
)

func TestParseTimestampFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2025-06-15T12:00:00Z", time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)},
		{"sql datetime", "2025-06-15 12:00:00", time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)},
		{"iso millis", "2025-06-15T12:00:00.123Z", time.Date(2025, 6, 15, 12, 0, 0, 123000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("parseTimestamp(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	if _, err := parseTimestamp("not a timestamp"); err == nil {
		t.Error("expected an error for unparseable input")
	}
}
