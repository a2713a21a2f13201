package utils

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Calc chains decimal operations and keeps the first arithmetic error.
// Once an error is recorded every further operation returns zero.
type Calc struct {
	err error
}

func (c *Calc) Err() error {
	return c.err
}

func (c *Calc) fail(err error) decimal.Decimal {
	if c.err == nil {
		c.err = fmt.Errorf("math error:%w", err)
	}
	return decimal.Zero
}

func (c *Calc) Add(a, b decimal.Decimal) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	r, err := a.Add(b)
	if err != nil {
		return c.fail(err)
	}
	return r
}

func (c *Calc) Sub(a, b decimal.Decimal) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	r, err := a.Sub(b)
	if err != nil {
		return c.fail(err)
	}
	return r
}

func (c *Calc) Mul(a, b decimal.Decimal) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	r, err := a.Mul(b)
	if err != nil {
		return c.fail(err)
	}
	return r
}

// Ratio returns num/den, or zero when den is zero.
func (c *Calc) Ratio(num, den decimal.Decimal) decimal.Decimal {
	if c.err != nil || den.IsZero() {
		return decimal.Zero
	}
	r, err := num.Quo(den)
	if err != nil {
		return c.fail(err)
	}
	return r
}

// Percent returns num/den*100 rounded half away from zero to scale digits,
// or zero when den is zero.
func (c *Calc) Percent(num, den decimal.Decimal, scale int) decimal.Decimal {
	r := c.Mul(c.Ratio(num, den), decimal.Hundred)
	return c.Round(r, scale)
}

// Round rounds half away from zero, unlike decimal.Round which rounds half to even.
func (c *Calc) Round(d decimal.Decimal, scale int) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	if d.IsNeg() {
		return c.Round(d.Neg(), scale).Neg()
	}
	shift, err := decimal.New(5, scale+1)
	if err != nil {
		return c.fail(err)
	}
	return c.Add(d, shift).Floor(scale)
}

// Sum adds values together.
func (c *Calc) Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = c.Add(total, v)
	}
	return total
}
