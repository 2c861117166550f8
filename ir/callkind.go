package ir

import "strings"

type CallKind int

const (
	CallStatic CallKind = iota
	CallSpecial
	CallVirtual
	CallInterface
	CallDynamic
)

func (k CallKind) String() string {
	switch k {
	case CallStatic:
		return "STATIC"
	case CallSpecial:
		return "SPECIAL"
	case CallVirtual:
		return "VIRTUAL"
	case CallInterface:
		return "INTERFACE"
	case CallDynamic:
		return "DYNAMIC"
	default:
		return "OTHER"
	}
}

// ParseCallKind is the inverse of CallKind.String (case-insensitive).
func ParseCallKind(s string) (CallKind, bool) {
	for k := CallStatic; k <= CallDynamic; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, true
		}
	}
	return 0, false
}
