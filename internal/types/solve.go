package types

// solve runs the constraint set to a fixpoint, repeatedly scanning for
// a constraint one of four rewrite rules applies to and discharging it.
// It stops when a full pass discharges nothing. Constraints the rules
// cannot yet decide (both sides still Unknown, or both sides a
// concrete-but-different shape) remain in the set; a concrete clash is
// reported immediately as a type error, everything else is left
// Unknown rather than forced.
func (c *Checker) solve() error {
	for {
		progress := false

		for key, pair := range c.constraints {
			applied, err := c.rewrite(pair.A, pair.B)
			if err != nil {
				return err
			}

			if applied {
				delete(c.constraints, key)

				progress = true
			}
		}

		if !progress {
			return nil
		}
	}
}

// rewrite applies whichever of the four rules fits (a, b), trying both
// orientations, and reports whether it made progress.
func (c *Checker) rewrite(a, b Term) (bool, error) {
	if err := c.checkConcreteClash(a, b); err != nil {
		return false, err
	}

	if ok, err := c.rewriteOriented(a, b); ok || err != nil {
		return ok, err
	}

	return c.rewriteOriented(b, a)
}

// checkConcreteClash rejects two fully concrete, non-Var terms whose
// shapes disagree — this is the only place a mismatch is reported
// directly, since the rewrite rules only ever fire when at least one
// side is a Var.
func (c *Checker) checkConcreteClash(a, b Term) error {
	switch at := a.(type) {
	case Base:
		if bt, ok := b.(Base); ok && at.ID != bt.ID {
			return c.errTypeMismatch(a, b)
		}
	case Arrow:
		if bt, ok := b.(Arrow); ok {
			if err := c.checkConcreteClash(c.expand(at.From), c.expand(bt.From)); err != nil {
				return err
			}

			return c.checkConcreteClash(c.expand(at.To), c.expand(bt.To))
		}

		if _, ok := b.(Base); ok {
			return c.errTypeMismatch(a, b)
		}
	}

	return nil
}

func (c *Checker) rewriteOriented(a, b Term) (bool, error) {
	av, aIsVar := a.(Var)
	bv, bIsVar := b.(Var)

	// Rule 1: Var ≡ Var, one side still Unknown — copy the other's
	// current value onto it (a no-op if both are still unsolved).
	if aIsVar && bIsVar {
		aVal, aHas := c.get(av.ID)
		bVal, bHas := c.get(bv.ID)

		switch {
		case aHas && !bHas:
			c.set(bv.ID, aVal)

			return true, nil
		case bHas && !aHas:
			c.set(av.ID, bVal)

			return true, nil
		case aHas && bHas:
			return c.rewrite(c.expand(aVal), c.expand(bVal))
		default:
			return false, nil
		}
	}

	// Rule 2: Var ≡ Base (or any other concrete, non-App shape) where
	// the var is still Unknown — assign it directly. If the var is
	// already resolved to an Arrow and the other side is also an
	// Arrow, decompose component-wise instead of re-testing equality.
	if aIsVar {
		if _, isApp := b.(App); !isApp {
			if cur, has := c.get(av.ID); has {
				curExp := c.expand(cur)

				if curArrow, ok := curExp.(Arrow); ok {
					if bArrow, ok := b.(Arrow); ok {
						c.emit(curArrow.From, bArrow.From)
						c.emit(curArrow.To, bArrow.To)

						return true, nil
					}
				}

				return c.rewrite(curExp, b)
			}

			if err := c.occursCheck(av.ID, b); err != nil {
				return false, err
			}

			c.set(av.ID, b)

			return true, nil
		}
	}

	// Rule 3/4: Var ≡ App, where the App's function side expands to an
	// Arrow — decompose into From ≡ Arg, To ≡ Var (rule symmetric in
	// App ≡ Var orientation, handled by the caller trying both sides).
	if aIsVar {
		if app, ok := b.(App); ok {
			expanded := c.expand(app.Fn)
			if arrow, ok := expanded.(Arrow); ok {
				c.emit(arrow.From, app.Arg)
				c.emit(arrow.To, a)

				return true, nil
			}
		}
	}

	return false, nil
}

// occursCheck rejects binding v to a term that already mentions v,
// which would otherwise build an infinite type.
func (c *Checker) occursCheck(v VarID, t Term) error {
	switch tt := t.(type) {
	case Var:
		if tt.ID == v {
			return c.errInfiniteType(v, t)
		}

		if cur, ok := c.get(tt.ID); ok {
			return c.occursCheck(v, cur)
		}
	case App:
		if err := c.occursCheck(v, tt.Fn); err != nil {
			return err
		}

		return c.occursCheck(v, tt.Arg)
	case Arrow:
		if err := c.occursCheck(v, tt.From); err != nil {
			return err
		}

		return c.occursCheck(v, tt.To)
	}

	return nil
}
