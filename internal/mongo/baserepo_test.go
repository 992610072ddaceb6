package mongo

import (
	"testing"
	"time"
)

func TestParseConnTimeout(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{
			name: "emptyUsesDefault",
			raw:  "",
			want: defaultConnTimeout,
		},
		{
			name: "durationString",
			raw:  "30s",
			want: 30 * time.Second,
		},
		{
			name: "subSecond",
			raw:  "250ms",
			want: 250 * time.Millisecond,
		},
		{
			name:    "garbage",
			raw:     "soon",
			wantErr: true,
		},
		{
			name:    "bareNumber",
			raw:     "10",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConnTimeout(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseConnTimeout(%q) should fail", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseConnTimeout(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("parseConnTimeout(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
