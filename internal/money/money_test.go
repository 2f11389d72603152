package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromFloatRoundsHalfUp(t *testing.T) {
	require.Equal(t, Money(10), FromFloat(0.10))
	require.Equal(t, Money(105), FromFloat(1.045))
	require.Equal(t, Money(21180), FromFloat(211.80))
	require.Equal(t, Money(1), FromFloat(0.005))
}

func TestFromFloatClampsToZero(t *testing.T) {
	require.Equal(t, Money(0), FromFloat(-5))
	require.Equal(t, Money(0), FromFloat(math.NaN()))
	require.Equal(t, Money(0), FromFloat(math.Inf(1)))
	require.Equal(t, Money(0), FromFloat(math.Inf(-1)))
}

func TestScale(t *testing.T) {
	price := FromFloat(35.30)
	require.Equal(t, FromFloat(211.80), price.Scale(6))
	require.Equal(t, FromFloat(88.25), price.Scale(2.5))
	require.Equal(t, Money(0), price.Scale(-1))
	require.Equal(t, Money(0), price.Scale(math.NaN()))
}

func TestScaleDoesNotDriftOverRepeatedSums(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear in document totals.
	unit := FromFloat(0.10)
	var total Money
	for i := 0; i < 1000; i++ {
		total = total.Add(unit.Scale(1))
	}
	require.Equal(t, FromFloat(100.00), total)
}

func TestString(t *testing.T) {
	require.Equal(t, "211.80", FromFloat(211.8).String())
	require.Equal(t, "0.05", Money(5).String())
	require.Equal(t, "-1.25", Money(-125).String())
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(FromFloat(211.80))
	require.NoError(t, err)
	require.Equal(t, "211.8", string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("35.3"), &m))
	require.Equal(t, FromFloat(35.30), m)

	require.NoError(t, json.Unmarshal([]byte("-10"), &m))
	require.Equal(t, Money(0), m)

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}
