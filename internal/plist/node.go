package plist

// Kind identifies the type of a Node.
type Kind int

const (
	// KindString is a <string> node.
	KindString Kind = iota
	// KindBool is a <true/> or <false/> node.
	KindBool
	// KindArray is an <array> node.
	KindArray
	// KindDict is a <dict> node.
	KindDict
)

// String returns the XML element name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Node is one value of a property list.
type Node struct {
	// Kind is the node type.
	Kind Kind
	// Str holds the value of string nodes.
	Str string
	// Bool holds the value of boolean nodes.
	Bool bool
	// Items holds the elements of array nodes.
	Items []*Node
	// Entries holds the ordered entries of dictionary nodes.
	Entries []Entry
}

// Entry is a key/value pair of a dictionary; keys may repeat.
type Entry struct {
	// Key is the dictionary key.
	Key string
	// Value is the node stored under Key.
	Value *Node
}

// Lookup returns the first value stored under key in a dictionary node.
func (n *Node) Lookup(key string) (*Node, bool) {
	if n == nil || n.Kind != KindDict {
		return nil, false
	}

	for _, entry := range n.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}

	return nil, false
}

// Keys returns the keys of a dictionary node in document order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindDict {
		return nil
	}

	keys := make([]string, 0, len(n.Entries))
	for _, entry := range n.Entries {
		keys = append(keys, entry.Key)
	}

	return keys
}

// Strings returns the values of an array of string nodes.
func (n *Node) Strings() []string {
	if n == nil || n.Kind != KindArray {
		return nil
	}

	values := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		if item.Kind == KindString {
			values = append(values, item.Str)
		}
	}

	return values
}

// Document is a complete property list with a dictionary root.
type Document struct {
	// Root is the top level dictionary.
	Root *Node
}
