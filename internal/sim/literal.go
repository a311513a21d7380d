package sim

import "fmt"

// PropID identifies a proposition (boolean variable) by its position in the
// engine's dense proposition arena: the DIMACS variable index minus one.
type PropID int32

// Literal represents a signed occurrence of a proposition in a clause: the
// proposition together with the sign under which it appears. The encoding
// (variable*2, variable*2+1) gives O(1) sign test and O(1) strip-sign.
type Literal int32

// Lit returns the positive literal of proposition v.
func Lit(v PropID) Literal { return Literal(v) * 2 }

// NegLit returns the negative literal of proposition v.
func NegLit(v PropID) Literal { return Literal(v)*2 + 1 }

// SignedLit returns the literal corresponding to a DIMACS-style signed
// variable index (positive for the true polarity, negative for the false
// polarity). The variable index itself is 1-based in DIMACS convention.
func SignedLit(signed int) Literal {
	if signed < 0 {
		return NegLit(PropID(-signed - 1))
	}
	return Lit(PropID(signed - 1))
}

// Prop returns the proposition this literal refers to.
func (l Literal) Prop() PropID { return PropID(l / 2) }

// Sign returns true for the positive polarity, false for the negated one.
func (l Literal) Sign() bool { return l&1 == 0 }

// Opposite returns the literal with the same proposition and the flipped
// sign.
func (l Literal) Opposite() Literal { return l ^ 1 }

// Signed returns the literal as a DIMACS-style signed variable index.
func (l Literal) Signed() int {
	v := int(l.Prop()) + 1
	if !l.Sign() {
		return -v
	}
	return v
}

func (l Literal) String() string {
	return fmt.Sprintf("%d", l.Signed())
}
