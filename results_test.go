package qsharp_bridge_go

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	cases := map[string]bool{
		``:           false,
		`null`:       false,
		`false`:      false,
		`0`:          false,
		`""`:         false,
		`[]`:         false,
		`{}`:         false,
		`true`:       true,
		`1`:          true,
		`"|1>"`:      true,
		`[0, 0]`:     true,
		`{"ok": 0}`:  true,
		`not json {`: false,
	}

	for raw, want := range cases {
		require.Equal(t, want, Truthy(json.RawMessage(raw)), "value %q", raw)
	}
}

func TestDecodeTeleportResult(t *testing.T) {
	t.Run("should ignore values past the fourth", func(t *testing.T) {
		req := require.New(t)

		res, err := decodeTeleportResult(json.RawMessage(`[0, 1, "|->", 1, "extra"]`))

		req.NoError(err)
		req.Equal(TeleportResult{MessageMeasurement: Zero, SenderMeasurement: One, ReceiverState: "|->", Success: true}, res)
	})

	t.Run("should describe a non string receiver state", func(t *testing.T) {
		req := require.New(t)

		res, err := decodeTeleportResult(json.RawMessage(`["One", "Zero", 1, false]`))

		req.NoError(err)
		req.Equal("1", res.ReceiverState)
		req.False(res.Success)
		req.Equal("10", res.ClassicalBits())
	})

	t.Run("should reject measurements outside 0 and 1", func(t *testing.T) {
		_, err := decodeTeleportResult(json.RawMessage(`[3, 0, "|0>", true]`))

		require.ErrorIs(t, err, ErrUnexpectedResult)
	})

	t.Run("should reject a scalar", func(t *testing.T) {
		_, err := decodeTeleportResult(json.RawMessage(`true`))

		require.ErrorIs(t, err, ErrUnexpectedResult)
	})
}

func TestDecodeBellPair(t *testing.T) {
	pair, err := decodeBellPair(OpCreateBellStatesSimple, json.RawMessage(`[1, 1]`))
	require.NoError(t, err)
	require.Equal(t, BellPair{First: One, Second: One}, pair)

	_, err = decodeBellPair(OpCreateBellStatesSimple, json.RawMessage(`[1]`))
	require.ErrorIs(t, err, ErrUnexpectedResult)
}
