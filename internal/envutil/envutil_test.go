package envutil

import (
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		base     []string
		override []string
		want     []string
	}{
		{
			name: "no override returns base",
			base: []string{"A=1", "B=2"},
			want: []string{"A=1", "B=2"},
		},
		{
			name:     "override wins in place",
			base:     []string{"A=1", "B=2"},
			override: []string{"A=9"},
			want:     []string{"A=9", "B=2"},
		},
		{
			name:     "new keys appended",
			base:     []string{"A=1"},
			override: []string{"C=3"},
			want:     []string{"A=1", "C=3"},
		},
		{
			name:     "malformed entries dropped",
			base:     []string{"A=1", "NOEQUALS", "=novalue"},
			override: []string{"B=2"},
			want:     []string{"A=1", "B=2"},
		},
		{
			name:     "value containing equals",
			base:     []string{"A=x=y"},
			override: []string{"A=z=w"},
			want:     []string{"A=z=w"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.override)
			if len(got) != len(tt.want) {
				t.Fatalf("Merge = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Merge = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
