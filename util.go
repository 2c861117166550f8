package pointer

import "github.com/BarrensZeppelin/pta/ir"

// PointerLike reports whether v can hold references to heap objects.
func PointerLike(v *ir.Var) bool {
	return ir.IsReference(v.Type)
}
