package domain

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	cases := []struct {
		input string
		wei   string
	}{
		{"1.5", "1500000000000000000"},
		{"0.01", "10000000000000000"},
		{"2", "2000000000000000000"},
		{".5", "500000000000000000"},
		{"3.", "3000000000000000000"},
		{"0.000000000000000001", "1"},
	}
	for _, c := range cases {
		value, err := ParseEther(c.input)
		require.NoError(t, err, c.input)
		require.Equal(t, c.wei, value.String(), c.input)
	}
}

func TestParseEtherRejects(t *testing.T) {
	for _, input := range []string{"", ".", "-1", "1e18", "abc", "1,5"} {
		_, err := ParseEther(input)
		require.True(t, errors.Is(err, ErrorInvalidInput), input)
	}

	_, err := ParseEther("0.0000000000000000001")
	require.ErrorIs(t, err, ErrorAmountPrecise)
}

func TestFormatEther(t *testing.T) {
	cases := []struct {
		wei      string
		expected string
	}{
		{"1500000000000000000", "1.5"},
		{"1000000000000000000", "1.0"},
		{"0", "0.0"},
		{"1", "0.000000000000000001"},
		{"-250000000000000000", "-0.25"},
	}
	for _, c := range cases {
		value, _ := new(big.Int).SetString(c.wei, 10)
		require.Equal(t, c.expected, FormatEther(value))
	}
	require.Equal(t, "0.0", FormatEther(nil))
}

func TestEtherRoundTrip(t *testing.T) {
	for _, value := range []string{"1.5", "0.01", "12345.67890123456789"} {
		wei, err := ParseEther(value)
		require.NoError(t, err)

		again, err := ParseEther(FormatEther(wei))
		require.NoError(t, err)
		require.Zero(t, wei.Cmp(again))
	}
}

func TestSafeInt64(t *testing.T) {
	v, err := SafeInt64(big.NewInt(MaxSafeInteger))
	require.NoError(t, err)
	require.Equal(t, int64(MaxSafeInteger), v)

	_, err = SafeInt64(new(big.Int).Add(big.NewInt(MaxSafeInteger), big.NewInt(1)))
	require.True(t, errors.Is(err, ErrorIntegerOverflow))
	require.Equal(t, KindIntegerOverflow, KindOf(err))

	v, err = SafeInt64(nil)
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestCalendarDate(t *testing.T) {
	at, err := UnixTime(big.NewInt(1700000000))
	require.NoError(t, err)
	require.Equal(t, "2023-11-14", CalendarDate(at))
	require.Equal(t, time.UTC, at.Location())
}

func TestParseCalendarDate(t *testing.T) {
	at, err := ParseCalendarDate("2025-03-01")
	require.NoError(t, err)
	require.Equal(t, int64(1740787200), at.Unix())

	at, err = ParseCalendarDate("2025-03-01T12:00:00+02:00")
	require.NoError(t, err)
	require.Equal(t, 10, at.Hour())

	_, err = ParseCalendarDate("01/03/2025")
	require.ErrorIs(t, err, ErrorInvalidDate)
}

func TestEtherJSON(t *testing.T) {
	wei, _ := ParseEther("2.25")
	data, err := json.Marshal(NewEther(wei))
	require.NoError(t, err)
	require.Equal(t, `"2.25"`, string(data))

	var decoded Ether
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Zero(t, decoded.Cmp(NewEther(wei)))
}
