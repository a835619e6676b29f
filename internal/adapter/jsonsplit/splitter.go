package jsonsplit

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

var (
	ErrInvalidChunkSize = errors.New("max chunk size must be positive")
	ErrUnsupportedShape = errors.New("json splitter requires an object at the top level")
)

// RecursiveSplitter splits a JSON object into smaller objects that each keep
// the nesting path of the members they carry. Sizes are measured as the
// character count of the compact serialization.
type RecursiveSplitter struct {
	minChunkSize int
	convertLists bool
}

type Option func(*RecursiveSplitter)

// WithMinChunkSize sets how large the current chunk must be before a member
// that does not fit opens a new one. Zero or less keeps the default of
// max(maxChunkSize-200, 50).
func WithMinChunkSize(n int) Option {
	return func(s *RecursiveSplitter) {
		s.minChunkSize = n
	}
}

// WithConvertLists turns arrays into objects keyed by index before splitting,
// so large arrays can be cut like objects.
func WithConvertLists(enabled bool) Option {
	return func(s *RecursiveSplitter) {
		s.convertLists = enabled
	}
}

func NewRecursiveSplitter(opts ...Option) *RecursiveSplitter {
	s := &RecursiveSplitter{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split implements port.JSONSplitter. The result is nil for an empty object.
func (s *RecursiveSplitter) Split(value any, maxChunkSize int) ([]any, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, maxChunkSize)
	}

	if s.convertLists {
		value = listsToObjects(value)
	}
	root, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedShape, kindOf(value))
	}

	run := &splitRun{
		max:    maxChunkSize,
		min:    s.effectiveMin(maxChunkSize),
		chunks: []*Object{NewObject()},
	}
	if err := run.split(root, nil); err != nil {
		return nil, err
	}

	chunks := run.chunks
	if chunks[len(chunks)-1].Len() == 0 {
		chunks = chunks[:len(chunks)-1]
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	out := make([]any, len(chunks))
	for i, c := range chunks {
		out[i] = c
	}
	return out, nil
}

func (s *RecursiveSplitter) effectiveMin(maxChunkSize int) int {
	if s.minChunkSize > 0 {
		return s.minChunkSize
	}
	return max(maxChunkSize-200, 50)
}

type splitRun struct {
	max    int
	min    int
	chunks []*Object
}

func (r *splitRun) current() *Object {
	return r.chunks[len(r.chunks)-1]
}

func (r *splitRun) split(data any, path []string) error {
	obj, ok := data.(*Object)
	if !ok || (obj.Len() == 0 && len(path) > 0) {
		return setNested(r.current(), path, data)
	}

	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		memberPath := append(append([]string(nil), path...), pair.Key)

		chunkSize, err := size(r.current())
		if err != nil {
			return err
		}
		member := NewObject()
		member.Set(pair.Key, pair.Value)
		memberSize, err := size(member)
		if err != nil {
			return err
		}

		if memberSize < r.max-chunkSize {
			if err := setNested(r.current(), memberPath, pair.Value); err != nil {
				return err
			}
			continue
		}

		if r.current().Len() > 0 && chunkSize >= r.min {
			r.chunks = append(r.chunks, NewObject())
		}
		if err := r.split(pair.Value, memberPath); err != nil {
			return err
		}
	}
	return nil
}

// setNested stores value at path inside target, creating intermediate
// objects as needed.
func setNested(target *Object, path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: got %s", ErrUnsupportedShape, kindOf(value))
	}

	node := target
	for _, key := range path[:len(path)-1] {
		existing, ok := node.Get(key)
		if !ok {
			child := NewObject()
			node.Set(key, child)
			node = child
			continue
		}
		child, ok := existing.(*Object)
		if !ok {
			return fmt.Errorf("cannot nest under %q: holds %s", key, kindOf(existing))
		}
		node = child
	}
	node.Set(path[len(path)-1], value)
	return nil
}

func size(value any) (int, error) {
	text, err := Encode(value)
	if err != nil {
		return 0, err
	}
	return utf8.RuneCountInString(text), nil
}

func listsToObjects(value any) any {
	switch v := value.(type) {
	case *Object:
		out := NewObject()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, listsToObjects(pair.Value))
		}
		return out
	case []any:
		out := NewObject()
		for i, item := range v {
			out.Set(strconv.Itoa(i), listsToObjects(item))
		}
		return out
	default:
		return value
	}
}

func kindOf(value any) string {
	switch value.(type) {
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case nil:
		return "null"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
