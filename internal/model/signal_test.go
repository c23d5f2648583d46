package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeKind_TextRoundTrip(t *testing.T) {
	for _, k := range []TradeKind{TradeDailyDCA, TradeZoneBuy, TradeDividend, TradeExit} {
		t.Run(k.String(), func(t *testing.T) {
			text, err := k.MarshalText()
			require.NoError(t, err)

			var got TradeKind
			require.NoError(t, got.UnmarshalText(text))
			assert.Equal(t, k, got)

			parsed, err := ParseTradeKind(string(text))
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		})
	}
}

func TestTradeKind_RejectsUnknown(t *testing.T) {
	_, err := ParseTradeKind("STOP_LOSS")
	assert.Error(t, err)

	k := TradeZoneBuy
	assert.Error(t, k.UnmarshalText([]byte("buy")))
	assert.Equal(t, TradeZoneBuy, k, "failed unmarshal must leave the value untouched")

	var zero TradeKind
	assert.False(t, zero.Valid())
	_, err = zero.MarshalText()
	assert.Error(t, err)
	_, err = TradeKind(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "TradeKind(9)", TradeKind(9).String())
}

func TestTrade_JSONUsesLabels(t *testing.T) {
	b, err := json.Marshal(Trade{ID: "SPY-1", Kind: TradeExit, Level: 2})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"EXIT"`)

	var tr Trade
	require.NoError(t, json.Unmarshal(b, &tr))
	assert.Equal(t, TradeExit, tr.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"HOLD"}`), &tr))

	_, err = json.Marshal(Trade{})
	assert.Error(t, err)
}

func TestTradeKind_IsBuy(t *testing.T) {
	assert.True(t, TradeDailyDCA.IsBuy())
	assert.True(t, TradeZoneBuy.IsBuy())
	assert.False(t, TradeDividend.IsBuy())
	assert.False(t, TradeExit.IsBuy())
}
