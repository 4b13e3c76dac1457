package pipeline

import (
	"github.com/saiset-co/sai-pipeline/types"
)

// execState is the per-request mutable state. It is created at request entry,
// owned exclusively by that request, and discarded at the single exit point.
type execState struct {
	values map[string]interface{}
}

func newExecState() *execState {
	return &execState{values: make(map[string]interface{}, 8)}
}

func (s *execState) merge(frag types.Fragment) {
	for key, value := range frag {
		s.values[key] = value
	}
}

func (s *execState) view() types.Context {
	return contextView{values: s.values}
}

// contextView is the read-only window middlewares and the terminal handler
// get onto the accumulated context. The map stays inside the orchestrator.
type contextView struct {
	values map[string]interface{}
}

func (v contextView) Get(key string) (interface{}, bool) {
	value, ok := v.values[key]
	return value, ok
}

func (v contextView) MustGet(key string) interface{} {
	value, ok := v.values[key]
	if !ok {
		panic(types.NewErrorf("context key %q not set", key))
	}
	return value
}

func (v contextView) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

func (v contextView) Keys() []string {
	keys := make([]string, 0, len(v.values))
	for key := range v.values {
		keys = append(keys, key)
	}
	return keys
}

func (v contextView) Len() int {
	return len(v.values)
}
