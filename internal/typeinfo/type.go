package typeinfo

import (
	"go/token"
	"go/types"
)

// Type describes a type information. It holds information of [types.Type] that
// is necessary to explain why two types are not identical.
type Type struct {
	T types.Type

	Basic     *types.Basic
	Pointer   *types.Pointer
	Named     *types.Named
	Alias     *types.Alias
	TypeParam *types.TypeParam

	Elem *Type
}

func (t Type) Type() types.Type { return t.T }
func (t Type) String() string   { return t.T.String() }

func (t Type) IsBasic() bool     { return t.Basic != nil }
func (t Type) IsPointer() bool   { return t.Pointer != nil }
func (t Type) IsNamed() bool     { return t.Named != nil }
func (t Type) IsAlias() bool     { return t.Alias != nil }
func (t Type) IsTypeParam() bool { return t.TypeParam != nil }

func (t Type) Identical(u Type) bool { return types.Identical(t.T, u.T) }

// TypeOf inspects the given type and returns a new [Type]. Aliases are kept in
// Alias and resolved for the other fields.
func TypeOf(t types.Type) Type {
	info := typeOf(types.Unalias(t))
	info.T = t
	if alias, ok := t.(*types.Alias); ok {
		info.Alias = alias
	}
	return info
}

func typeOf(t types.Type) Type {
	switch tt := t.(type) {
	case *types.Basic:
		return Type{T: t, Basic: tt}
	case *types.Pointer:
		elem := TypeOf(tt.Elem())
		return Type{T: t, Pointer: tt, Elem: &elem}
	case *types.Named:
		return Type{T: t, Named: tt}
	case *types.TypeParam:
		return Type{T: t, TypeParam: tt}
	}
	return Type{T: t}
}

// Pkg returns the package where the type is defined. It returns nil if the type
// is not a named type.
func (t Type) Pkg() *types.Package {
	if !t.IsNamed() {
		return nil
	}
	return t.Named.Obj().Pkg()
}

// Name returns the name of the named type. It returns an empty string if the
// type is not a named type.
func (t Type) Name() string {
	if !t.IsNamed() {
		return ""
	}
	return t.Named.Obj().Name()
}

// Pos returns the position where the type is defined. It returns token.NoPos if
// the type is not a named type.
func (t Type) Pos() token.Pos {
	if t.IsNamed() {
		return t.Named.Obj().Pos()
	}
	if t.IsPointer() {
		return t.Deref().Pos()
	}
	return token.NoPos
}

// Deref returns the element type if the type is a pointer. For type of *X, it
// returns type of X. If the type is not a pointer, it returns the type itself.
func (t Type) Deref() Type {
	if t.IsPointer() {
		return (*t.Elem).Deref()
	}
	return t
}

// PointerDepth returns the number of pointer indirections. For example, for
// type of ***X, it returns 3. For type of X, it returns 0.
func (t Type) PointerDepth() int {
	depth := 0
	for t.IsPointer() {
		depth++
		t = *t.Elem
	}
	return depth
}

// IsInstance reports whether the type is an instantiation of a generic type.
// e.g., Container[int]
func (t Type) IsInstance() bool {
	return t.IsNamed() && t.Named.TypeArgs().Len() != 0
}

// Origin returns the generic type of an instantiated type. For other types, it
// returns the type itself.
//
// e.g., Container[int] => Container[T]
func (t Type) Origin() Type {
	if !t.IsNamed() {
		return t
	}
	return TypeOf(t.Named.Origin())
}

// SameOrigin reports whether both types are instantiations of one generic
// type.
func (t Type) SameOrigin(u Type) bool {
	if !t.IsInstance() || !u.IsInstance() {
		return false
	}
	return t.Named.Origin() == u.Named.Origin()
}
