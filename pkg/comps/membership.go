package comps

// Membership says how a package belongs to a component.  It is
// either Unconditional or Conditional.
type Membership interface {
	membership()
}

// Unconditional membership always counts toward chain satisfaction.
type Unconditional struct{}

// Conditional membership counts only while at least one of the
// expressions matches.
type Conditional []string

func (Unconditional) membership() {}
func (Conditional) membership()   {}
