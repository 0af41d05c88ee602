package rewrite

import "strings"

// RefRewriter recognizes one reference shape inside a property value and
// rewrites the identifiers it carries. Rewrite returns the (possibly
// unchanged) node and true when the shape was recognized; the tree walk does
// not recurse into handled nodes. New shapes are supported by registering
// another implementation, not by changing the rewrite core.
type RefRewriter interface {
	Name() string
	Rewrite(node any, subs map[string]string) (any, bool)
}

func defaultRefRewriters() []RefRewriter {
	return []RefRewriter{
		markerRef{},
		getAttRef{},
		interpolatedString{},
	}
}

// markerRef handles structured reference markers: a single-key map of the
// form {"ref": "<id>"} or {"Ref": "<id>"}.
type markerRef struct{}

func (markerRef) Name() string { return "marker" }

func (markerRef) Rewrite(node any, subs map[string]string) (any, bool) {
	obj, ok := node.(map[string]any)
	if !ok || len(obj) != 1 {
		return nil, false
	}
	for _, key := range []string{"ref", "Ref"} {
		target, ok := obj[key].(string)
		if !ok {
			continue
		}
		if orig, hit := subs[target]; hit {
			return map[string]any{key: orig}, true
		}
		return map[string]any{key: target}, true
	}
	return nil, false
}

// getAttRef handles attribute references: {"Fn::GetAtt": ["<id>", "Attr"]}
// or the short string form {"Fn::GetAtt": "<id>.Attr"}.
type getAttRef struct{}

func (getAttRef) Name() string { return "getatt" }

func (getAttRef) Rewrite(node any, subs map[string]string) (any, bool) {
	obj, ok := node.(map[string]any)
	if !ok || len(obj) != 1 {
		return nil, false
	}
	raw, ok := obj["Fn::GetAtt"]
	if !ok {
		return nil, false
	}

	switch val := raw.(type) {
	case []any:
		if len(val) == 0 {
			return node, true
		}
		id, ok := val[0].(string)
		if !ok {
			return node, true
		}
		out := make([]any, len(val))
		copy(out, val)
		if orig, hit := subs[id]; hit {
			out[0] = orig
		}
		return map[string]any{"Fn::GetAtt": out}, true
	case string:
		id, attr, found := strings.Cut(val, ".")
		if !found {
			return node, true
		}
		if orig, hit := subs[id]; hit {
			return map[string]any{"Fn::GetAtt": orig + "." + attr}, true
		}
		return node, true
	default:
		return nil, false
	}
}

// interpolatedString handles identifiers embedded in string values: either
// the whole string is an identifier, or it occurs as ${<id>} inside an
// interpolation. Identifiers are replaced byte-for-byte, with no
// normalization or escaping.
type interpolatedString struct{}

func (interpolatedString) Name() string { return "interpolation" }

func (interpolatedString) Rewrite(node any, subs map[string]string) (any, bool) {
	s, ok := node.(string)
	if !ok {
		return nil, false
	}

	if orig, hit := subs[s]; hit {
		return orig, true
	}

	if strings.Contains(s, "${") {
		for newID, orig := range subs {
			s = strings.ReplaceAll(s, "${"+newID+"}", "${"+orig+"}")
			// Attribute form, e.g. ${MyFn.Arn}.
			s = strings.ReplaceAll(s, "${"+newID+".", "${"+orig+".")
		}
	}
	return s, true
}
