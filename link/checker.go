package link

import (
	"sort"
	"strings"
)

// Checker is the link/reference checking collaborator.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: checking failures return *Error so callers can pass them on as JSON.
// - Ownership: inputs are read-only; returned values are caller-owned and never nil slices.
type Checker interface {
	// FindAllAnchors returns every anchor exported by components, sorted.
	FindAllAnchors(components []Component) ([]string, error)

	// FindOriginCodes returns the code fragments owned by components plus the
	// client code of every API they call.
	FindOriginCodes(components []Component, fetch ApisCheckFunction) ([]CodeItem, error)

	// FindTemplateOriginCodes returns the code fragments carried by a node tree.
	FindTemplateOriginCodes(nodes []TrimmedNode) ([]CodeItem, error)

	// Check validates every reference and API call and returns the combined model.
	Check(components []Component, fetch ApisCheckFunction) (CheckedCombined, error)

	// CheckTemplates validates template nodes against a previously checked model.
	CheckTemplates(nodes []TrimmedNode, checked CheckedCombined, fetch ApisCheckFunction) (CheckedTemplate, error)
}

// Engine is the default Checker. The zero value is ready to use.
type Engine struct{}

var _ Checker = Engine{}

// QualifyAnchor returns the fully qualified anchor of an export.
func QualifyAnchor(componentID, export string) string {
	return componentID + AnchorSeparator + export
}

// AnchorOwner returns the component id part of a qualified anchor.
func AnchorOwner(anchor string) string {
	owner, _, _ := strings.Cut(anchor, AnchorSeparator)
	return owner
}

// FindAllAnchors implements Checker.
func (Engine) FindAllAnchors(components []Component) ([]string, error) {
	anchors, err := indexAnchors(components)
	if err != nil {
		return nil, err
	}
	return sortedKeys(anchors), nil
}

// FindOriginCodes implements Checker.
func (Engine) FindOriginCodes(components []Component, fetch ApisCheckFunction) ([]CodeItem, error) {
	if _, err := indexAnchors(components); err != nil {
		return nil, err
	}
	return collectComponentCodes(components, fetch)
}

// FindTemplateOriginCodes implements Checker.
func (Engine) FindTemplateOriginCodes(nodes []TrimmedNode) ([]CodeItem, error) {
	codes := []CodeItem{}
	err := walkNodes(nodes, func(n TrimmedNode) error {
		items, err := ownCodes(n.ID, n.Codes)
		if err != nil {
			return err
		}
		codes = append(codes, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// Check implements Checker.
func (Engine) Check(components []Component, fetch ApisCheckFunction) (CheckedCombined, error) {
	anchors, err := indexAnchors(components)
	if err != nil {
		return CheckedCombined{}, err
	}

	checked := CheckedCombined{Components: make([]CheckedComponent, 0, len(components))}
	for _, c := range components {
		cc := CheckedComponent{
			ID:        c.ID,
			Anchors:   []string{},
			DependsOn: []string{},
			Apis:      []string{},
		}
		for _, export := range c.Exports {
			cc.Anchors = append(cc.Anchors, QualifyAnchor(c.ID, export))
		}
		sort.Strings(cc.Anchors)

		deps := make(map[string]bool)
		for _, ref := range c.Refs {
			if !anchors[ref.Anchor] {
				return CheckedCombined{}, newError(KindUnknownAnchor, c.ID, ref.Anchor,
					"component %q references unknown anchor %q", c.ID, ref.Anchor)
			}
			if owner := AnchorOwner(ref.Anchor); owner != c.ID {
				deps[owner] = true
			}
		}
		cc.DependsOn = append(cc.DependsOn, sortedKeys(deps)...)

		for _, id := range c.Apis {
			if _, ok := fetch.Lookup(id); !ok {
				return CheckedCombined{}, newError(KindUnknownApi, c.ID, id,
					"component %q calls unknown api %q", c.ID, id)
			}
		}
		cc.Apis = append(cc.Apis, dedupe(c.Apis)...)
		checked.Components = append(checked.Components, cc)
	}

	checked.Anchors = sortedKeys(anchors)
	checked.Codes, err = collectComponentCodes(components, fetch)
	if err != nil {
		return CheckedCombined{}, err
	}
	return checked, nil
}

// CheckTemplates implements Checker.
func (Engine) CheckTemplates(nodes []TrimmedNode, checked CheckedCombined, fetch ApisCheckFunction) (CheckedTemplate, error) {
	tpl := CheckedTemplate{Codes: []CodeItem{}}
	used := make(map[string]bool)
	seenApis := make(map[string]bool)

	err := walkNodes(nodes, func(n TrimmedNode) error {
		tpl.Nodes++
		for _, anchor := range n.Refs {
			if !checked.HasAnchor(anchor) {
				return newError(KindUnknownAnchor, n.ID, anchor,
					"node %q references unknown anchor %q", n.ID, anchor)
			}
			used[anchor] = true
		}

		items, err := ownCodes(n.ID, n.Codes)
		if err != nil {
			return err
		}
		tpl.Codes = append(tpl.Codes, items...)

		pulled, err := apiCodes(n.ID, n.Apis, fetch, seenApis)
		if err != nil {
			return err
		}
		tpl.Codes = append(tpl.Codes, pulled...)
		return nil
	})
	if err != nil {
		return CheckedTemplate{}, err
	}

	tpl.Anchors = sortedKeys(used)
	return tpl, nil
}

// indexAnchors validates component ids and exports and returns the set of
// qualified anchors.
func indexAnchors(components []Component) (map[string]bool, error) {
	ids := make(map[string]bool, len(components))
	anchors := make(map[string]bool)

	for i, c := range components {
		if c.ID == "" {
			return nil, newError(KindEmptyID, "", "", "component %d has no id", i)
		}
		if ids[c.ID] {
			return nil, newError(KindDuplicateComponent, c.ID, "", "component id %q is used twice", c.ID)
		}
		ids[c.ID] = true

		for _, export := range c.Exports {
			if export == "" {
				return nil, newError(KindEmptyID, c.ID, "", "component %q exports an unnamed anchor", c.ID)
			}
			anchor := QualifyAnchor(c.ID, export)
			if anchors[anchor] {
				return nil, newError(KindDuplicateAnchor, c.ID, anchor, "anchor %q is exported twice", anchor)
			}
			anchors[anchor] = true
		}
	}
	return anchors, nil
}

func collectComponentCodes(components []Component, fetch ApisCheckFunction) ([]CodeItem, error) {
	codes := []CodeItem{}
	seenApis := make(map[string]bool)
	for _, c := range components {
		items, err := ownCodes(c.ID, c.Codes)
		if err != nil {
			return nil, err
		}
		codes = append(codes, items...)

		items, err = apiCodes(c.ID, c.Apis, fetch, seenApis)
		if err != nil {
			return nil, err
		}
		codes = append(codes, items...)
	}
	return codes, nil
}

// ownCodes defaults empty anchors to the owner id and rejects empty code.
func ownCodes(owner string, items []CodeItem) ([]CodeItem, error) {
	out := make([]CodeItem, 0, len(items))
	for _, item := range items {
		if item.Anchor == "" {
			item.Anchor = owner
		}
		if strings.TrimSpace(item.Code) == "" {
			return nil, newError(KindMissingCode, owner, item.Anchor, "code for %q is empty", item.Anchor)
		}
		out = append(out, item)
	}
	return out, nil
}

// apiCodes resolves API ids through fetch. Each API contributes its client
// code once per call, tracked by seen.
func apiCodes(owner string, apis []string, fetch ApisCheckFunction, seen map[string]bool) ([]CodeItem, error) {
	var out []CodeItem
	for _, id := range apis {
		api, ok := fetch.Lookup(id)
		if !ok {
			return nil, newError(KindUnknownApi, owner, id, "%q calls unknown api %q", owner, id)
		}
		if seen[id] || api.Code == "" {
			continue
		}
		seen[id] = true
		out = append(out, CodeItem{Anchor: id, Code: api.Code})
	}
	return out, nil
}

func walkNodes(nodes []TrimmedNode, visit func(TrimmedNode) error) error {
	for i, n := range nodes {
		if n.ID == "" {
			return newError(KindEmptyID, "", "", "node %d has no id", i)
		}
		if err := visit(n); err != nil {
			return err
		}
		if err := walkNodes(n.Children, visit); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
