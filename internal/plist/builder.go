package plist

import "errors"

var (
	// ErrUnbalanced is returned when containers are not closed in order.
	ErrUnbalanced = errors.New("unbalanced containers")
	// ErrMissingKey is returned when a dictionary value is written without a key.
	ErrMissingKey = errors.New("dictionary value without key")
	// ErrDanglingKey is returned when a key is not followed by a value.
	ErrDanglingKey = errors.New("key without value")
	// ErrKeyOutsideDict is returned when a key is written inside an array.
	ErrKeyOutsideDict = errors.New("key outside dictionary")
	// ErrFinished is returned when the builder is used after Build.
	ErrFinished = errors.New("document already built")
)

// Builder assembles a Document in a single append-only pass. The first
// misuse is remembered and returned by Build; later calls are ignored.
type Builder struct {
	// root is the top level dictionary.
	root *Node
	// stack holds the open containers, root first.
	stack []*Node
	// key is the pending dictionary key.
	key string
	// hasKey tells whether key waits for its value.
	hasKey bool
	// err is the first misuse.
	err error
	// built is set once Build succeeded.
	built bool
}

// NewBuilder returns a builder whose root dictionary is already open.
func NewBuilder() *Builder {
	root := &Node{Kind: KindDict}

	return &Builder{
		root:  root,
		stack: []*Node{root},
	}
}

// WriteKey sets the key of the next value written into the current dictionary.
func (b *Builder) WriteKey(key string) {
	if !b.usable() {
		return
	}

	if b.top().Kind != KindDict {
		b.fail(ErrKeyOutsideDict)
		return
	}

	if b.hasKey {
		b.fail(ErrDanglingKey)
		return
	}

	b.key, b.hasKey = key, true
}

// WriteString appends a string node.
func (b *Builder) WriteString(value string) {
	b.add(&Node{Kind: KindString, Str: value})
}

// WriteBool appends a boolean node.
func (b *Builder) WriteBool(value bool) {
	b.add(&Node{Kind: KindBool, Bool: value})
}

// Property writes a key followed by a string node.
func (b *Builder) Property(key, value string) {
	b.WriteKey(key)
	b.WriteString(value)
}

// BeginDict opens a nested dictionary.
func (b *Builder) BeginDict() {
	b.open(&Node{Kind: KindDict})
}

// EndDict closes the innermost dictionary.
func (b *Builder) EndDict() {
	b.close(KindDict)
}

// BeginArray opens a nested array.
func (b *Builder) BeginArray() {
	b.open(&Node{Kind: KindArray})
}

// EndArray closes the innermost array.
func (b *Builder) EndArray() {
	b.close(KindArray)
}

// StringArray writes a complete array of string nodes.
func (b *Builder) StringArray(values []string) {
	b.BeginArray()

	for _, value := range values {
		b.WriteString(value)
	}

	b.EndArray()
}

// Build closes the root dictionary and returns the finished document.
func (b *Builder) Build() (*Document, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.built {
		return nil, ErrFinished
	}

	if b.hasKey {
		return nil, ErrDanglingKey
	}

	if len(b.stack) != 1 {
		return nil, ErrUnbalanced
	}

	b.built = true
	b.stack = nil

	return &Document{Root: b.root}, nil
}

func (b *Builder) usable() bool {
	if b.err != nil {
		return false
	}

	if b.built {
		b.fail(ErrFinished)
		return false
	}

	return true
}

func (b *Builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) add(node *Node) bool {
	if !b.usable() {
		return false
	}

	parent := b.top()

	switch parent.Kind {
	case KindDict:
		if !b.hasKey {
			b.fail(ErrMissingKey)
			return false
		}

		parent.Entries = append(parent.Entries, Entry{Key: b.key, Value: node})
		b.key, b.hasKey = "", false
	case KindArray:
		parent.Items = append(parent.Items, node)
	default:
		b.fail(ErrUnbalanced)
		return false
	}

	return true
}

func (b *Builder) open(node *Node) {
	if b.add(node) {
		b.stack = append(b.stack, node)
	}
}

func (b *Builder) close(kind Kind) {
	if !b.usable() {
		return
	}

	// The root dictionary is closed by Build.
	if len(b.stack) < 2 || b.top().Kind != kind {
		b.fail(ErrUnbalanced)
		return
	}

	if b.hasKey {
		b.fail(ErrDanglingKey)
		return
	}

	b.stack = b.stack[:len(b.stack)-1]
}
