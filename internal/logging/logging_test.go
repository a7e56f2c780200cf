package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Setenv(LevelEnv, tt.env)
		for _, format := range []string{"text", "json"} {
			if got := Setup(format).GetLevel(); got != tt.want {
				t.Errorf("%s/%q: level = %v, want %v", format, tt.env, got, tt.want)
			}
		}
	}
}
