// Package format renders counts, reals and points into the fixed textual
// forms used by the piping report. Every function is pure.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"fortio.org/safecast"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// MMPerInch is the exact inch length in millimeters.
	MMPerInch = 25.4
	// InchesPerFoot converts feet, the document's native length unit.
	InchesPerFoot = 12
	// RealDecimals is the maximum number of decimals Real keeps.
	RealDecimals = 4
)

// PluralSuffix returns the English plural suffix for n items: "" for
// exactly one, "s" otherwise.
func PluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Terminator returns ":" when n items follow and "." when none do.
func Terminator(n int) string {
	if n > 0 {
		return ":"
	}
	return "."
}

// Real renders x with at most four decimals, dropping trailing zeros and a
// trailing decimal point. x is first reduced to 15 significant digits and
// then rounded half away from zero, so 0.03125 renders as "0.0313".
// Negative zero, and negatives that round to zero, render as "0".
func Real(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}

	// "d.dddddddddddddde±XX": 15 significant digits.
	e := strconv.FormatFloat(math.Abs(x), 'e', 14, 64)
	mant, exp, _ := strings.Cut(e, "e")
	scale, err := strconv.Atoi(exp)
	if err != nil {
		return strconv.FormatFloat(x, 'f', RealDecimals, 64)
	}
	digits, ok := new(big.Int).SetString(strings.Replace(mant, ".", "", 1), 10)
	if !ok {
		return strconv.FormatFloat(x, 'f', RealDecimals, 64)
	}

	// |x| = digits * 10^(scale-14); scaled = |x| * 10^RealDecimals.
	shift := scale - 14 + RealDecimals
	scaled := digits
	if shift >= 0 {
		scaled.Mul(scaled, pow10(shift))
	} else {
		div := pow10(-shift)
		rem := new(big.Int)
		scaled.QuoRem(scaled, div, rem)
		if rem.Lsh(rem, 1).Cmp(div) >= 0 {
			scaled.Add(scaled, big.NewInt(1))
		}
	}
	if scaled.Sign() == 0 {
		return "0"
	}

	s := scaled.String()
	if len(s) <= RealDecimals {
		s = strings.Repeat("0", RealDecimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-RealDecimals], strings.TrimRight(s[len(s)-RealDecimals:], "0")
	if frac != "" {
		whole += "." + frac
	}
	if x < 0 {
		return "-" + whole
	}
	return whole
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// Point renders p as "(x,y,z)".
func Point(p v3.Vec) string {
	return "(" + Real(p.X) + "," + Real(p.Y) + "," + Real(p.Z) + ")"
}

// PointSpaced renders p as "x y z".
func PointSpaced(p v3.Vec) string {
	return Real(p.X) + " " + Real(p.Y) + " " + Real(p.Z)
}

// Points renders each point with Point and joins them with single spaces.
func Points(pts []v3.Vec) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = Point(p)
	}
	return strings.Join(parts, " ")
}

// DiameterMM converts a diameter in feet to whole millimeters, rounding to
// the nearest integer with ties to even.
func DiameterMM(feet float64) (int, error) {
	n, err := roundMM(feet * InchesPerFoot * MMPerInch)
	if err != nil {
		return 0, fmt.Errorf("diameter %v ft: %w", feet, err)
	}
	return n, nil
}

func roundMM(mm float64) (int, error) {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return 0, fmt.Errorf("%v mm is not a finite length", mm)
	}
	return safecast.Convert[int](math.RoundToEven(mm))
}
