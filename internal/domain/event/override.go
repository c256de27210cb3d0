package event

import (
	"sort"
	"strings"
)

// SignatureKey identifies one upstream action shape after canonicalization.
type SignatureKey struct {
	Family     string
	Subtype    string
	Descriptor string
	Qualifiers string
}

// Override carries the classification fields a curated mapping may replace.
// Zero values mean "keep the codebook result".
type Override struct {
	Subfamily  string
	TypeCode   int
	ActionCode int
}

// OverrideTable is a lookup from canonical signatures to overrides. An empty
// table leaves every codebook default in place.
type OverrideTable map[SignatureKey]Override

// NewSignatureKey canonicalizes the parts and sorts the qualifier set so any
// orderings of the same qualifiers produce the same key.
func NewSignatureKey(family, subtype, descriptor string, qualifiers []string) SignatureKey {
	canon := make([]string, 0, len(qualifiers))
	for _, q := range qualifiers {
		if c := Canon(q); c != "" {
			canon = append(canon, c)
		}
	}
	sort.Strings(canon)
	return SignatureKey{
		Family:     Canon(family),
		Subtype:    Canon(subtype),
		Descriptor: Canon(descriptor),
		Qualifiers: strings.Join(canon, ","),
	}
}

// Lookup returns the override for the signature, if any.
func (t OverrideTable) Lookup(key SignatureKey) (Override, bool) {
	if len(t) == 0 {
		return Override{}, false
	}
	ov, ok := t[key]
	return ov, ok
}
