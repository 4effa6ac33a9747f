package format

import (
	"fmt"
	"math"
)

// unitStep is the scale factor between adjacent byte units.
const unitStep = 1024

// byteUnits are the scaled units, smallest first. Values below unitStep
// render as whole bytes without decimals.
var byteUnits = []string{"KB", "MB", "GB", "TB", "PB"}

// HumanBytes converts a byte count into a human-readable string such as
// "500 B" or "1.50 KB". Non-finite inputs render as "0 B". Negative inputs
// keep their sign but are otherwise formatted like their positive
// counterpart.
func HumanBytes(bytes float64) string {
	if math.IsNaN(bytes) || math.IsInf(bytes, 0) {
		return "0 B"
	}

	sign := ""
	if bytes < 0 {
		sign = "-"
		bytes = -bytes
	}

	if bytes < unitStep {
		return fmt.Sprintf("%s%d B", sign, int64(bytes))
	}

	value := bytes
	unit := byteUnits[0]
	for i, u := range byteUnits {
		value /= unitStep
		unit = u
		if value < unitStep || i == len(byteUnits)-1 {
			break
		}
	}

	precision := 2
	switch {
	case value >= 100:
		precision = 0
	case value >= 10:
		precision = 1
	}

	return fmt.Sprintf("%s%.*f %s", sign, precision, value, unit)
}
