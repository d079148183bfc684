// Package money holds fixed-point currency amounts and commission rates.
//
// Amounts are stored as int64 counts of the smallest currency unit (cents).
// Rates are exact decimals; multiplying an amount by a rate rounds half-up
// to the smallest unit.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of decimal places of the smallest unit.
const MinorUnitExponent = 2

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRate   = errors.New("invalid rate")
)

// Amount is a currency value in minor units.
type Amount int64

// ParseAmount reads a decimal string such as "100", "100.5" or "13.00".
// More than two fractional digits are rejected rather than rounded.
func ParseAmount(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	minor := d.Shift(MinorUnitExponent)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, value, MinorUnitExponent)
	}

	return Amount(minor.IntPart()), nil
}

func MustParseAmount(value string) Amount {
	amount, err := ParseAmount(value)
	if err != nil {
		panic(err)
	}

	return amount
}

// Decode implements envconfig.Decoder.
func (a *Amount) Decode(value string) error {
	amount, err := ParseAmount(value)
	if err != nil {
		return err
	}

	*a = amount

	return nil
}

func (a Amount) String() string {
	return decimal.New(int64(a), -MinorUnitExponent).StringFixed(MinorUnitExponent)
}

func (a Amount) IsPositive() bool {
	return a > 0
}

// Sum adds amounts together.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, amount := range amounts {
		total += amount
	}

	return total
}

// Rate is a decimal fraction in the closed interval [0, 1].
type Rate struct {
	value decimal.Decimal
}

func ParseRate(value string) (Rate, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, value)
	}

	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return Rate{}, fmt.Errorf("%w: %q must be between 0 and 1", ErrInvalidRate, value)
	}

	return Rate{value: d}, nil
}

func MustParseRate(value string) Rate {
	rate, err := ParseRate(value)
	if err != nil {
		panic(err)
	}

	return rate
}

// Decode implements envconfig.Decoder.
func (r *Rate) Decode(value string) error {
	rate, err := ParseRate(value)
	if err != nil {
		return err
	}

	*r = rate

	return nil
}

func (r Rate) String() string {
	return r.value.String()
}

// Apply returns round_half_up(amount * rate) in minor units.
func (r Rate) Apply(amount Amount) Amount {
	// Round rounds half away from zero, which is half-up for the
	// non-negative amounts the ledger works with.
	return Amount(decimal.NewFromInt(int64(amount)).Mul(r.value).Round(0).IntPart())
}

// Split divides a gross amount into commission and net so that
// gross == commission + net holds exactly. Net is derived from the
// rounded commission and never rounded on its own.
func (r Rate) Split(gross Amount) (commission, net Amount) {
	if gross < 0 {
		panic(fmt.Sprintf("money: cannot split negative gross amount %d", gross))
	}

	commission = r.Apply(gross)
	net = gross - commission

	if net < 0 || commission+net != gross {
		panic(fmt.Sprintf("money: split of %d at rate %s is unbalanced (commission %d, net %d)", gross, r, commission, net))
	}

	return commission, net
}
