package cart

import "fmt"

// Cents is an amount of money in the smallest currency unit.
type Cents int64

// String formats c with exactly two decimals, e.g. 10050 -> "100.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
