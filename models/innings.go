package models

import (
	"fmt"
	"math"
)

// Innings pitched are recorded as N.d where d is the number of outs (0, 1 or
// 2) recorded in an unfinished inning: 5.1 means five innings and one out.
// The value is never a true decimal and must be converted before division.

// maxInnings keeps the out count of any encoded value within an int32
const maxInnings = math.MaxInt32 / OutsPerInning

// InningsToOuts converts an encoded innings value into total outs recorded
func InningsToOuts(encoded float64) (int, error) {
	if math.IsNaN(encoded) || math.IsInf(encoded, 0) || encoded < 0 {
		return 0, fmt.Errorf("%w: innings pitched %v is not a valid value", ErrDataIntegrity, encoded)
	}
	if encoded >= maxInnings {
		return 0, fmt.Errorf("%w: innings pitched %v is out of range", ErrDataIntegrity, encoded)
	}

	whole := math.Floor(encoded)
	fraction := (encoded - whole) * 10
	outs := math.Round(fraction)
	if math.Abs(fraction-outs) > 1e-6 || outs > 2 {
		return 0, fmt.Errorf("%w: innings pitched %v must end in .0, .1 or .2", ErrDataIntegrity, encoded)
	}

	return int(whole)*OutsPerInning + int(outs), nil
}

// OutsToInnings encodes a total out count in N.d form
func OutsToInnings(outs int) float64 {
	return float64(outs/OutsPerInning) + float64(outs%OutsPerInning)/10
}

// OutsToDecimal returns true innings (whole + outs/3) for rate computations
func OutsToDecimal(outs int) float64 {
	return float64(outs) / OutsPerInning
}

// InningsDecimal converts an encoded innings value to true innings
func InningsDecimal(encoded float64) (float64, error) {
	outs, err := InningsToOuts(encoded)
	if err != nil {
		return 0, err
	}
	return OutsToDecimal(outs), nil
}
