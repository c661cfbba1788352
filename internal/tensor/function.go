package tensor

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Func identifies an elementwise activation or loss function applied by
// Matrix.Apply. Every tag has a value form and a derivative form.
type Func int

// Supported function tags. The numeric values are shared with the WGSL
// activate kernel and must not be reordered.
const (
	Linear Func = iota
	Sigmoid
	Tanh
	ReLU
	LeakyReLU
	ELU
	GELU
	// MSE is applied to a residual (predicted - target). Its value is the
	// per-element contribution r²/n and its derivative 2r/n, where n is the
	// extent of the last axis.
	MSE
)

// DefaultAlpha is the negative-side slope used by LeakyReLU and ELU.
const DefaultAlpha = 0.01

// FuncParams carries the per-call constants a function form may need.
type FuncParams struct {
	Alpha float64
	Cols  int
}

type funcForm func(x float64, p FuncParams) float64

type funcPair struct {
	name       string
	value      funcForm
	derivative funcForm
}

// funcTable maps every tag to its value/derivative pair.
var funcTable = map[Func]funcPair{
	Linear: {
		name:       "linear",
		value:      func(x float64, _ FuncParams) float64 { return x },
		derivative: func(float64, FuncParams) float64 { return 1 },
	},
	Sigmoid: {
		name:  "sigmoid",
		value: func(x float64, _ FuncParams) float64 { return sigmoid(x) },
		derivative: func(x float64, _ FuncParams) float64 {
			s := sigmoid(x)
			return s * (1 - s)
		},
	},
	Tanh: {
		name:  "tanh",
		value: func(x float64, _ FuncParams) float64 { return math.Tanh(x) },
		derivative: func(x float64, _ FuncParams) float64 {
			t := math.Tanh(x)
			return 1 - t*t
		},
	},
	ReLU: {
		name:  "relu",
		value: func(x float64, _ FuncParams) float64 { return math.Max(0, x) },
		derivative: func(x float64, _ FuncParams) float64 {
			if x > 0 {
				return 1
			}
			return 0
		},
	},
	LeakyReLU: {
		name: "leaky_relu",
		value: func(x float64, p FuncParams) float64 {
			if x > 0 {
				return x
			}
			return p.Alpha * x
		},
		derivative: func(x float64, p FuncParams) float64 {
			if x > 0 {
				return 1
			}
			return p.Alpha
		},
	},
	ELU: {
		name: "elu",
		value: func(x float64, p FuncParams) float64 {
			if x > 0 {
				return x
			}
			return p.Alpha * (math.Exp(x) - 1)
		},
		derivative: func(x float64, p FuncParams) float64 {
			if x > 0 {
				return 1
			}
			return p.Alpha * math.Exp(x)
		},
	},
	GELU: {
		name:       "gelu",
		value:      geluValue,
		derivative: geluDerivative,
	},
	MSE: {
		name: "mse",
		value: func(r float64, p FuncParams) float64 {
			return r * r / float64(p.Cols)
		},
		derivative: func(r float64, p FuncParams) float64 {
			return 2 * r / float64(p.Cols)
		},
	},
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// sqrt(2/pi), coefficient of the tanh GELU approximation.
const geluC = 0.7978845608028654

func geluValue(x float64, _ FuncParams) float64 {
	inner := geluC * (x + 0.044715*x*x*x)
	return 0.5 * x * (1 + math.Tanh(inner))
}

func geluDerivative(x float64, _ FuncParams) float64 {
	inner := geluC * (x + 0.044715*x*x*x)
	t := math.Tanh(inner)
	dInner := geluC * (1 + 3*0.044715*x*x)
	return 0.5*(1+t) + 0.5*x*(1-t*t)*dInner
}

// Lookup returns the form of fn selected by derivative, or
// ErrUnsupportedFunction if the tag or that form is not defined.
func (fn Func) Lookup(derivative bool) (func(x float64, p FuncParams) float64, error) {
	pair, ok := funcTable[fn]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFunction, "unknown function tag %d", int(fn))
	}
	form, mode := pair.value, "value"
	if derivative {
		form, mode = pair.derivative, "derivative"
	}
	if form == nil {
		return nil, errors.Wrapf(ErrUnsupportedFunction, "%s has no %s form", pair.name, mode)
	}
	return form, nil
}

// Validate checks that fn defines both its value and derivative forms.
func (fn Func) Validate() error {
	if _, err := fn.Lookup(false); err != nil {
		return err
	}
	_, err := fn.Lookup(true)
	return err
}

// IsLoss reports whether fn is a loss tag applied to residuals.
func (fn Func) IsLoss() bool {
	return fn == MSE
}

// String returns the tag name, e.g. "sigmoid".
func (fn Func) String() string {
	if pair, ok := funcTable[fn]; ok {
		return pair.name
	}
	return "unknown"
}

// ParseFunc returns the tag whose name matches s (case-insensitive).
func ParseFunc(s string) (Func, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for fn, pair := range funcTable {
		if pair.name == name {
			return fn, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedFunction, "unknown function %q", s)
}

// Funcs returns all supported tags in ascending order.
func Funcs() []Func {
	fns := make([]Func, 0, len(funcTable))
	for fn := Linear; fn <= MSE; fn++ {
		if _, ok := funcTable[fn]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
