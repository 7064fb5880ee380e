package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// EtherDecimals is the fixed-point scale of the chain's native currency.
const EtherDecimals = 18

// MaxSafeInteger is the largest counter or id the client accepts from chain.
const MaxSafeInteger = 1<<53 - 1

const calendarDateLayout = "2006-01-02"

var (
	weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)
	maxSafeInt  = big.NewInt(MaxSafeInteger)

	DecimalRE = regexp.MustCompile(`^(\d*)(?:\.(\d*))?$`)
)

var (
	ErrorInvalidAmount = ErrorInvalidInput.WithMessage("amount must be a non-negative decimal number")
	ErrorAmountPrecise = ErrorInvalidInput.WithMessage("amount has more than %d decimals", EtherDecimals)
	ErrorInvalidDate   = ErrorInvalidInput.WithMessage("date must be formatted as YYYY-MM-DD or RFC 3339")
)

// ParseEther converts a human decimal amount ("1.5") to its fixed-point value
// in wei.
func ParseEther(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	m := DecimalRE.FindStringSubmatch(value)
	if m == nil || (m[1] == "" && m[2] == "") {
		return nil, ErrorInvalidAmount
	}

	whole, frac := m[1], m[2]
	if len(frac) > EtherDecimals {
		return nil, ErrorAmountPrecise
	}
	if whole == "" {
		whole = "0"
	}

	digits := whole + frac + strings.Repeat("0", EtherDecimals-len(frac))
	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, ErrorInvalidAmount
	}
	return wei, nil
}

// FormatEther renders a wei value as a human decimal. Whole values keep one
// fractional digit ("2.0").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	abs := new(big.Int).Abs(wei)
	whole, rem := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	frac := rem.String()
	frac = strings.Repeat("0", EtherDecimals-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	sign := ""
	if wei.Sign() < 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + frac
}

// SafeInt64 converts an on-chain integer to int64, refusing values outside the
// safe integer range instead of truncating them.
func SafeInt64(v *big.Int) (int64, error) {
	if v == nil {
		return 0, nil
	}
	if v.CmpAbs(maxSafeInt) > 0 {
		return 0, ErrorIntegerOverflow.WithMessage("value %v exceeds the safe integer range", v)
	}
	return v.Int64(), nil
}

// UnixTime converts an on-chain seconds timestamp to a UTC instant.
func UnixTime(seconds *big.Int) (time.Time, error) {
	secs, err := SafeInt64(seconds)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}

// CalendarDate formats t as the UTC calendar date.
func CalendarDate(t time.Time) string {
	return t.UTC().Format(calendarDateLayout)
}

// ParseCalendarDate reads a date input (YYYY-MM-DD, taken as UTC midnight, or
// RFC 3339).
func ParseCalendarDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(calendarDateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrorInvalidDate
}

// Ether is an amount of the native currency kept in wei.
type Ether struct {
	wei *big.Int
}

func NewEther(wei *big.Int) Ether {
	if wei == nil {
		return Ether{}
	}
	return Ether{wei: new(big.Int).Set(wei)}
}

// Wei returns a copy of the fixed-point value.
func (e Ether) Wei() *big.Int {
	if e.wei == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(e.wei)
}

func (e Ether) String() string {
	return FormatEther(e.wei)
}

func (e Ether) Cmp(other Ether) int {
	return e.Wei().Cmp(other.Wei())
}

func (e Ether) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Ether) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("ether amount: %w", err)
	}
	wei, err := ParseEther(s)
	if err != nil {
		return err
	}
	e.wei = wei
	return nil
}

func (e Ether) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}
