package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAll_capturesValuesAndErrors(t *testing.T) {
	var (
		name Settled[string]
		num  Settled[int]
	)

	SettleAll(
		Settle(&name, func() (string, error) { return "Alice", nil }),
		Settle(&num, func() (int, error) { return 0, errors.New("boom") }),
	)

	require.NoError(t, name.Err)
	assert.Equal(t, "Alice", name.Value)
	require.Error(t, num.Err)
}

func TestSettleAll_oneFailureNeverStopsSiblings(t *testing.T) {
	var (
		a Settled[int]
		b Settled[int]
		c Settled[int]
	)

	SettleAll(
		Settle(&a, func() (int, error) { return 0, errors.New("first fails") }),
		Settle(&b, func() (int, error) {
			time.Sleep(10 * time.Millisecond)
			return 2, nil
		}),
		Settle(&c, func() (int, error) { return 3, nil }),
	)

	require.Error(t, a.Err)
	assert.Equal(t, 2, b.Value)
	assert.Equal(t, 3, c.Value)
}

func TestOrFallback(t *testing.T) {
	ok := Settled[string]{Value: "real"}
	assert.Equal(t, "real", ok.OrFallback("fallback"))

	bad := Settled[string]{Value: "partial", Err: errors.New("fetch failed")}
	assert.Equal(t, "fallback", bad.OrFallback("fallback"))
}
