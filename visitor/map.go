package visitor

import (
	"fmt"
	"reflect"
)

// OfMap creates a Visitor over any map value. Common key/element combinations
// avoid reflection.
func OfMap(value interface{}) (Visitor[any, any], error) {
	switch actual := value.(type) {
	case map[string]interface{}:
		return typedMap[string, interface{}](actual), nil
	case map[string]string:
		return typedMap[string, string](actual), nil
	case map[string]int:
		return typedMap[string, int](actual), nil
	case map[string]bool:
		return typedMap[string, bool](actual), nil
	case map[interface{}]interface{}:
		return typedMap[interface{}, interface{}](actual), nil
	}
	rValue := reflect.ValueOf(value)
	if rValue.Kind() != reflect.Map {
		return nil, fmt.Errorf("expected map, got %T", value)
	}
	visit := func(f func(key any, element any) (bool, error)) error {
		iter := rValue.MapRange()
		for iter.Next() {
			continueVisit, err := f(iter.Key().Interface(), iter.Value().Interface())
			if err != nil {
				return err
			}
			if !continueVisit {
				break
			}
		}
		return nil
	}
	return visit, nil
}

func typedMap[K comparable, E any](aMap map[K]E) Visitor[any, any] {
	return func(f func(key any, element any) (bool, error)) error {
		for k, e := range aMap {
			continueVisit, err := f(k, e)
			if err != nil {
				return err
			}
			if !continueVisit {
				break
			}
		}
		return nil
	}
}
