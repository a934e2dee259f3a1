package cpkernel

// BoolVar is an IntVar restricted to {0, 1} (spec §3.1).
type BoolVar struct {
	*IntVar
}

// NewBoolVar creates a boolean variable with domain {0, 1}.
func NewBoolVar(engine *Engine, name string) *BoolVar {
	return &BoolVar{IntVar: NewEnumeratedIntVar(engine, name, 0, 1)}
}

// IsTrue reports whether the variable is instantiated to 1.
func (b *BoolVar) IsTrue() bool { return b.IsInstantiated() && b.LB() == 1 }

// IsFalse reports whether the variable is instantiated to 0.
func (b *BoolVar) IsFalse() bool { return b.IsInstantiated() && b.LB() == 0 }

// SetTrue instantiates the variable to 1.
func (b *BoolVar) SetTrue(cause Cause) error { return b.InstantiateTo(1, cause) }

// SetFalse instantiates the variable to 0.
func (b *BoolVar) SetFalse(cause Cause) error { return b.InstantiateTo(0, cause) }
