package link

// AnchorSeparator joins a component id and an export name.
const AnchorSeparator = "#"

// Component is an element of a component tree.
type Component struct {
	// ID uniquely identifies the component.
	ID string `json:"id"`

	// Kind is an informational component type, such as "page" or "form".
	Kind string `json:"kind,omitempty"`

	// Exports are the anchor names this component makes linkable.
	Exports []string `json:"exports,omitempty"`

	// Refs are the anchors this component consumes.
	Refs []Ref `json:"refs,omitempty"`

	// Codes are the source-code fragments owned by this component.
	Codes []CodeItem `json:"codes,omitempty"`

	// Apis are the ids of the APIs this component calls.
	Apis []string `json:"apis,omitempty"`
}

// Ref is a consumed anchor.
type Ref struct {
	// Anchor is the fully qualified anchor, "<component id>#<export>".
	Anchor string `json:"anchor"`

	// Field optionally names the consuming property.
	Field string `json:"field,omitempty"`
}

// CodeItem is a source-code fragment attributed to an anchor.
type CodeItem struct {
	Anchor string `json:"anchor"`
	Code   string `json:"code"`
}

// Api describes one API the capability can resolve.
type Api struct {
	// Candid is the interface description of the API, if known.
	Candid string `json:"candid,omitempty"`

	// Code is the client code fragment for the API, if any.
	Code string `json:"code,omitempty"`
}

// ApisCheckFunction is the caller-supplied capability used to resolve API ids.
type ApisCheckFunction struct {
	Apis map[string]Api `json:"apis"`
}

// Lookup returns the API registered under id.
func (f ApisCheckFunction) Lookup(id string) (Api, bool) {
	api, ok := f.Apis[id]
	return api, ok
}

// TrimmedNode is a reduced template node.
type TrimmedNode struct {
	ID       string        `json:"id"`
	Tag      string        `json:"tag,omitempty"`
	Refs     []string      `json:"refs,omitempty"`
	Codes    []CodeItem    `json:"codes,omitempty"`
	Apis     []string      `json:"apis,omitempty"`
	Children []TrimmedNode `json:"children,omitempty"`
}

// CheckedComponent is a component after successful checking, with its
// references resolved to the exporting component.
type CheckedComponent struct {
	ID        string   `json:"id"`
	Anchors   []string `json:"anchors"`
	DependsOn []string `json:"dependsOn"`
	Apis      []string `json:"apis"`
}

// CheckedCombined is the result of a full check.
type CheckedCombined struct {
	Components []CheckedComponent `json:"components"`
	Anchors    []string           `json:"anchors"`
	Codes      []CodeItem         `json:"codes"`
}

// HasAnchor reports whether anchor was exported by a checked component.
func (c CheckedCombined) HasAnchor(anchor string) bool {
	for _, a := range c.Anchors {
		if a == anchor {
			return true
		}
	}
	return false
}

// CheckedTemplate is the result of checking template nodes.
type CheckedTemplate struct {
	// Nodes is the number of nodes visited.
	Nodes int `json:"nodes"`

	// Anchors are the distinct anchors the template consumes, sorted.
	Anchors []string `json:"anchors"`

	// Codes are the code fragments the template carries or pulls in through APIs.
	Codes []CodeItem `json:"codes"`
}
