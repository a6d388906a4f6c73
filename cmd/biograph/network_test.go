package main

import (
	"testing"

	"github.com/knutsen/biograph/internal/config"
	"github.com/knutsen/biograph/internal/netbuild"
	"github.com/knutsen/biograph/internal/person"
)

func TestParseSeeds(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []person.Key
		wantErr bool
	}{
		{
			name:   "single id",
			values: []string{"1762"},
			want:   []person.Key{1762},
		},
		{
			name:   "multiple ids",
			values: []string{"1762", "526"},
			want:   []person.Key{1762, 526},
		},
		{
			name:   "empty input",
			values: nil,
			want:   []person.Key{},
		},
		{
			name:    "non-numeric id",
			values:  []string{"1762", "wang"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSeeds(tt.values)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSeeds(%v) succeeded, want error", tt.values)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSeeds(%v) returned error: %v", tt.values, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseSeeds(%v) = %v, want %v", tt.values, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseSeeds(%v)[%d] = %v, want %v", tt.values, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLimitsFromConfig(t *testing.T) {
	cfg := &config.Config{MaxDepth: 4, MaxNodes: 5000}
	limits := limitsFromConfig(cfg)
	if limits.MaxDepth != 4 || limits.MaxNodes != 5000 {
		t.Errorf("limitsFromConfig = %+v", limits)
	}

	// Zero config fields stay zero here; the builder substitutes its own
	// defaults.
	empty := limitsFromConfig(&config.Config{})
	if empty != (netbuild.Limits{}) {
		t.Errorf("limitsFromConfig(empty) = %+v", empty)
	}
}
