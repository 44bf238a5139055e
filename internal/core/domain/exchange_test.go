package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExchangePhase_String(t *testing.T) {
	tests := []struct {
		phase ExchangePhase
		want  string
	}{
		{PhaseIdle, "idle"},
		{PhaseSending, "sending"},
		{PhaseStreaming, "streaming"},
		{PhaseFinalising, "finalising"},
		{PhaseError, "error"},
		{ExchangePhase(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phase.String())
		})
	}
}
