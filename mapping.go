package attrly

import "reflect"

type (
	//Mapping abstracts the container produced by AsMap; implementations may
	//preserve insertion order or not.
	Mapping interface {
		Put(key, value interface{})
		Get(key interface{}) (interface{}, bool)
		Len() int
		Each(cb func(key, value interface{}) bool)
	}

	//MapFactory produces Mapping containers
	MapFactory func() Mapping

	//Pair represents a single mapping entry
	Pair struct {
		Key   interface{}
		Value interface{}
	}

	//OrderedMap is the default Mapping; it preserves insertion order and
	//tolerates non-comparable keys (converted declarative instances).
	OrderedMap struct {
		pairs []Pair
		index map[interface{}]int
	}
)

// NewOrderedMap creates an insertion-order preserving mapping
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: map[interface{}]int{}}
}

// Put adds or replaces an entry
func (m *OrderedMap) Put(key, value interface{}) {
	if isComparable(key) {
		if pos, ok := m.index[key]; ok {
			m.pairs[pos].Value = value
			return
		}
		m.index[key] = len(m.pairs)
	}
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
}

// Get returns a value matched by key
func (m *OrderedMap) Get(key interface{}) (interface{}, bool) {
	if isComparable(key) {
		pos, ok := m.index[key]
		if !ok {
			return nil, false
		}
		return m.pairs[pos].Value, true
	}
	return nil, false
}

// Len returns entry count
func (m *OrderedMap) Len() int {
	return len(m.pairs)
}

// Each visits entries in insertion order until cb returns false
func (m *OrderedMap) Each(cb func(key, value interface{}) bool) {
	for _, pair := range m.pairs {
		if !cb(pair.Key, pair.Value) {
			return
		}
	}
}

// Pairs returns entries in insertion order
func (m *OrderedMap) Pairs() []Pair {
	return m.pairs
}

// Keys returns keys in insertion order
func (m *OrderedMap) Keys() []interface{} {
	ret := make([]interface{}, len(m.pairs))
	for i, pair := range m.pairs {
		ret[i] = pair.Key
	}
	return ret
}

func isComparable(key interface{}) bool {
	if key == nil {
		return true
	}
	return reflect.TypeOf(key).Comparable()
}

// lookupKey resolves a string key against a source mapping: a plain Go map,
// a Mapping, or any map with string-convertible keys.
func lookupKey(source interface{}, key string) (interface{}, bool) {
	switch actual := source.(type) {
	case map[string]interface{}:
		value, ok := actual[key]
		return value, ok
	case map[interface{}]interface{}:
		value, ok := actual[key]
		return value, ok
	case Mapping:
		return actual.Get(key)
	}
	rValue := reflect.ValueOf(source)
	if !rValue.IsValid() || rValue.Kind() != reflect.Map {
		return nil, false
	}
	if rValue.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	item := rValue.MapIndex(reflect.ValueOf(key).Convert(rValue.Type().Key()))
	if !item.IsValid() {
		return nil, false
	}
	return item.Interface(), true
}

// isMappingSource returns true if source can feed FromMap
func isMappingSource(source interface{}) bool {
	if source == nil {
		return false
	}
	if _, ok := source.(Mapping); ok {
		return true
	}
	return reflect.ValueOf(source).Kind() == reflect.Map
}
