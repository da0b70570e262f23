package itensor

import (
	"fmt"
	"math"
)

// LogNum is a real number stored as a sign and the natural log of its
// magnitude. Tensor scale factors multiply across long contraction chains,
// so keeping them in log space keeps products of many small or large
// factors finite.
type LogNum struct {
	sign   int8
	logmag float64
}

// LogOne returns the LogNum representing 1.
func LogOne() LogNum {
	return LogNum{sign: 1}
}

// LogOf returns the LogNum representing v.
func LogOf(v float64) LogNum {
	switch {
	case v > 0:
		return LogNum{sign: 1, logmag: math.Log(v)}
	case v < 0:
		return LogNum{sign: -1, logmag: math.Log(-v)}
	default:
		return LogNum{}
	}
}

// LogFromParts reconstructs a LogNum from its serialized sign and log
// magnitude. A zero sign yields zero regardless of logmag.
func LogFromParts(sign int8, logmag float64) LogNum {
	if sign == 0 {
		return LogNum{}
	}
	if sign < 0 {
		return LogNum{sign: -1, logmag: logmag}
	}
	return LogNum{sign: 1, logmag: logmag}
}

// IsZero reports whether the number is zero.
func (l LogNum) IsZero() bool {
	return l.sign == 0
}

// Sign returns -1, 0, or +1.
func (l LogNum) Sign() int {
	return int(l.sign)
}

// LogMag returns the natural log of the magnitude. Meaningless when zero.
func (l LogNum) LogMag() float64 {
	return l.logmag
}

// Magnitude returns |l| as a plain float64, possibly overflowing to +Inf.
func (l LogNum) Magnitude() float64 {
	if l.sign == 0 {
		return 0
	}
	return math.Exp(l.logmag)
}

// Mul returns the product of two LogNums.
func (l LogNum) Mul(o LogNum) LogNum {
	if l.sign == 0 || o.sign == 0 {
		return LogNum{}
	}
	return LogNum{sign: l.sign * o.sign, logmag: l.logmag + o.logmag}
}

// Div returns l/o. Fails when o is zero.
func (l LogNum) Div(o LogNum) (LogNum, error) {
	if o.sign == 0 {
		return LogNum{}, fmt.Errorf("division of scale by zero")
	}
	if l.sign == 0 {
		return LogNum{}, nil
	}
	return LogNum{sign: l.sign * o.sign, logmag: l.logmag - o.logmag}, nil
}

// Abs returns the absolute value.
func (l LogNum) Abs() LogNum {
	if l.sign < 0 {
		l.sign = 1
	}
	return l
}

// Neg returns the negation.
func (l LogNum) Neg() LogNum {
	l.sign = -l.sign
	return l
}

// Real0 converts back to a plain float64. Fails when the magnitude
// overflows the float64 range.
func (l LogNum) Real0() (float64, error) {
	if l.sign == 0 {
		return 0, nil
	}
	v := math.Exp(l.logmag)
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("scale magnitude e^%g overflows float64", l.logmag)
	}
	return float64(l.sign) * v, nil
}

// ApproxEqual reports whether two LogNums agree in sign and in log
// magnitude up to a small tolerance.
func (l LogNum) ApproxEqual(o LogNum) bool {
	if l.sign != o.sign {
		return false
	}
	if l.sign == 0 {
		return true
	}
	return math.Abs(l.logmag-o.logmag) < 1e-12*(1+math.Abs(l.logmag))
}

// String renders the number in ordinary notation when it fits, and in
// sign*exp(logmag) form when it does not.
func (l LogNum) String() string {
	if v, err := l.Real0(); err == nil {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%d*exp(%g)", l.sign, l.logmag)
}
