package model

import "fmt"

// tagKeyKind discriminates the two TagKey variants.
type tagKeyKind uint8

const (
	kindTag tagKeyKind = iota
	kindGroup
)

// TagKey identifies a column of a dataset: either a concrete tag id or a
// virtual group bucket. It is a comparable value type so it can key row
// maps directly.
//
// Earlier revisions shared one string namespace with a "group:" prefix
// and probed it all over the method library; the sum type removes that.
type TagKey struct {
	kind tagKeyKind
	name string
}

// TagID builds the key for a concrete tag.
func TagID(id string) TagKey {
	return TagKey{kind: kindTag, name: id}
}

// GroupKey builds the virtual key for a tag group.
func GroupKey(name string) TagKey {
	return TagKey{kind: kindGroup, name: name}
}

// IsGroup reports whether the key names a group bucket rather than a tag.
func (k TagKey) IsGroup() bool {
	return k.kind == kindGroup
}

// Name returns the tag id or group name without any prefix.
func (k TagKey) Name() string {
	return k.name
}

// String renders the key in its wire form: the raw tag id, or
// "group:<name>" for group buckets. Used in summaries and stored findings.
func (k TagKey) String() string {
	if k.kind == kindGroup {
		return "group:" + k.name
	}
	return k.name
}

// MarshalText implements encoding.TextMarshaler so findings serialize
// with the wire form above.
func (k TagKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the wire form produced by MarshalText.
func (k *TagKey) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		return fmt.Errorf("empty tag key")
	}
	const groupPrefix = "group:"
	if len(s) > len(groupPrefix) && s[:len(groupPrefix)] == groupPrefix {
		*k = GroupKey(s[len(groupPrefix):])
		return nil
	}
	*k = TagID(s)
	return nil
}
