package dataflows

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "msft", " nvda ", "BRK.B", "700.HK", "BF-B", "A"}
	for _, s := range valid {
		assert.NoError(t, ValidateSymbol(s), "symbol %q", s)
	}

	invalid := []string{"", "   ", "AA PL", "TOOLONGSYMBOL99", "AAPL..B", "$SPX", "BRK.LONGG"}
	for _, s := range invalid {
		assert.Error(t, ValidateSymbol(s), "symbol %q", s)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "MSFT", NormalizeSymbol("  msft "))
	assert.Equal(t, "BRK.B", NormalizeSymbol("brk.b"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestCacheManagerRoundtrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, true)

	type payload struct {
		Symbol string    `json:"symbol"`
		Prices []float64 `json:"prices"`
	}
	in := payload{Symbol: "AAPL", Prices: []float64{101.5, 102.25}}
	params := map[string]interface{}{"symbol": "AAPL", "days": 30}

	require.NoError(t, cm.Set("yahoo", "window", params, in))

	var out payload
	require.True(t, cm.Get("yahoo", "window", params, &out))
	assert.Equal(t, in, out)

	// Different params miss.
	var miss payload
	assert.False(t, cm.Get("yahoo", "window", map[string]interface{}{"symbol": "MSFT", "days": 30}, &miss))
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, false)
	params := map[string]interface{}{"symbol": "AAPL"}

	require.NoError(t, cm.Set("yahoo", "window", params, map[string]string{"k": "v"}))

	var out map[string]string
	assert.False(t, cm.Get("yahoo", "window", params, &out))
}

func TestCacheManagerExpiry(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Millisecond, true)
	params := map[string]interface{}{"symbol": "AAPL"}

	require.NoError(t, cm.Set("yahoo", "window", params, map[string]string{"k": "v"}))
	time.Sleep(10 * time.Millisecond)

	var out map[string]string
	assert.False(t, cm.Get("yahoo", "window", params, &out))
}

func TestWithRetryEventualSuccess(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	attempts := 0
	err := WithRetry(cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhausted(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	sentinel := errors.New("down")
	err := WithRetry(cfg, func() error { return sentinel })
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "max retries exceeded")
}
