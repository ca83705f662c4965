package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "logger output should be one JSON object")
	return out
}

func TestNewWithWriter_LedgerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info().
		Str("submission_id", "sub-1").
		Str("method", "balance").
		Int64("creator_net", 8500).
		Msg("payment settled")

	out := decodeLine(t, &buf)
	assert.Equal(t, "payment settled", out["message"])
	assert.Equal(t, "sub-1", out["submission_id"])
	assert.Equal(t, float64(8500), out["creator_net"])
	assert.Equal(t, "info", out["level"])
	assert.Equal(t, "creator-payout-ledger", out["service"])
	assert.Contains(t, out, "time")
}

func TestComponent_TagsChildLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewWithWriter("info", &buf), "withdrawal")

	log.Warn().Str("withdrawal_id", "w-1").Msg("withdrawal failed")

	out := decodeLine(t, &buf)
	assert.Equal(t, "withdrawal", out["component"])
	assert.Equal(t, "warn", out["level"])
	assert.Equal(t, "w-1", out["withdrawal_id"])
}

func TestParseLevel_Filtering(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{" WARNING ", false, false, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"verbose", false, true, true},
		{"", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var debug, info, warn bytes.Buffer
			debugLog := NewWithWriter(tt.level, &debug)
			debugLog.Debug().Msg("fee computed")
			infoLog := NewWithWriter(tt.level, &info)
			infoLog.Info().Msg("payment settled")
			warnLog := NewWithWriter(tt.level, &warn)
			warnLog.Warn().Msg("publish skipped")

			assert.Equal(t, tt.debugSeen, debug.Len() > 0, "debug")
			assert.Equal(t, tt.infoSeen, info.Len() > 0, "info")
			assert.Equal(t, tt.warnSeen, warn.Len() > 0, "warn")
		})
	}
}

func TestNew_PrettyMode(t *testing.T) {
	assert.NotPanics(t, func() {
		log := New("debug", true)
		log.Debug().Str("account_id", "BANK").Msg("clearing account ready")
	})
}
