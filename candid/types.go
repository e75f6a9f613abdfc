package candid

// Kind identifies a Candid type constructor.
type Kind string

// Type kinds.
const (
	KindNull      Kind = "null"
	KindBool      Kind = "bool"
	KindNat       Kind = "nat"
	KindInt       Kind = "int"
	KindNat8      Kind = "nat8"
	KindNat16     Kind = "nat16"
	KindNat32     Kind = "nat32"
	KindNat64     Kind = "nat64"
	KindInt8      Kind = "int8"
	KindInt16     Kind = "int16"
	KindInt32     Kind = "int32"
	KindInt64     Kind = "int64"
	KindFloat32   Kind = "float32"
	KindFloat64   Kind = "float64"
	KindText      Kind = "text"
	KindReserved  Kind = "reserved"
	KindEmpty     Kind = "empty"
	KindPrincipal Kind = "principal"
	KindOpt       Kind = "opt"
	KindVec       Kind = "vec"
	KindRecord    Kind = "record"
	KindVariant   Kind = "variant"
	KindFunc      Kind = "func"
	KindService   Kind = "service"
	KindRef       Kind = "ref"
)

var primitives = map[string]Kind{
	"null":      KindNull,
	"bool":      KindBool,
	"nat":       KindNat,
	"int":       KindInt,
	"nat8":      KindNat8,
	"nat16":     KindNat16,
	"nat32":     KindNat32,
	"nat64":     KindNat64,
	"int8":      KindInt8,
	"int16":     KindInt16,
	"int32":     KindInt32,
	"int64":     KindInt64,
	"float32":   KindFloat32,
	"float64":   KindFloat64,
	"text":      KindText,
	"reserved":  KindReserved,
	"empty":     KindEmpty,
	"principal": KindPrincipal,
}

// Method annotations.
const (
	ModeQuery          = "query"
	ModeOneway         = "oneway"
	ModeCompositeQuery = "composite_query"
)

var modes = map[string]bool{
	ModeQuery:          true,
	ModeOneway:         true,
	ModeCompositeQuery: true,
}

// Type is a Candid type. Only the fields relevant to Kind are set.
type Type struct {
	Kind Kind `json:"kind"`

	// Name is the referenced definition for KindRef.
	Name string `json:"name,omitempty"`

	// Elem is the element type for KindOpt and KindVec.
	Elem *Type `json:"elem,omitempty"`

	// Fields are the members of KindRecord and KindVariant, sorted by ID.
	Fields []Field `json:"fields,omitempty"`

	// Func is the signature for KindFunc.
	Func *FuncType `json:"func,omitempty"`

	// Methods are the members of KindService.
	Methods []Method `json:"methods,omitempty"`
}

// Field is a record or variant member.
type Field struct {
	// Name is the textual label; empty for numeric or positional labels.
	Name string `json:"name,omitempty"`

	// ID is the numeric field id.
	ID uint32 `json:"id"`

	Type Type `json:"type"`
}

// Arg is a function argument or result, optionally named.
type Arg struct {
	Name string `json:"name,omitempty"`
	Type Type   `json:"type"`
}

// FuncType is a function signature.
type FuncType struct {
	Args  []Arg    `json:"args"`
	Rets  []Arg    `json:"rets"`
	Modes []string `json:"modes"`
}

// Method is a named service entry point.
type Method struct {
	Name string `json:"name"`
	FuncType
}

// TypeDef is a named type definition.
type TypeDef struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Service is the parsed description of a service.
type Service struct {
	// Name is the optional actor name ("service foo : ...").
	Name string `json:"name,omitempty"`

	// Init lists the init arguments of a service class.
	Init []Arg `json:"init"`

	// Types lists the type definitions in declaration order.
	Types []TypeDef `json:"types"`

	// Methods lists the service methods in declaration order.
	Methods []Method `json:"methods"`
}

// Method returns the method with the given name.
func (s Service) Method(name string) (Method, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// LabelHash returns the Candid field id of a textual label.
func LabelHash(label string) uint32 {
	var h uint32
	for i := 0; i < len(label); i++ {
		h = h*223 + uint32(label[i])
	}
	return h
}
