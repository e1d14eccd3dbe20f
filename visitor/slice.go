package visitor

import (
	"fmt"
	"reflect"
)

// OfSlice creates a Visitor over any slice or array value. Common element
// types avoid reflection.
func OfSlice(value interface{}) (Visitor[int, any], error) {
	switch actual := value.(type) {
	case []interface{}:
		return typedSlice[interface{}](actual), nil
	case []string:
		return typedSlice[string](actual), nil
	case []int:
		return typedSlice[int](actual), nil
	case []int64:
		return typedSlice[int64](actual), nil
	case []float64:
		return typedSlice[float64](actual), nil
	case []float32:
		return typedSlice[float32](actual), nil
	case []bool:
		return typedSlice[bool](actual), nil
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, fmt.Errorf("expected slice or array, got %T", value)
	}
	visit := func(f func(key int, element any) (bool, error)) error {
		for i := 0; i < rValue.Len(); i++ {
			continueVisit, err := f(i, rValue.Index(i).Interface())
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

func typedSlice[E any](slice []E) Visitor[int, any] {
	return func(f func(key int, element any) (bool, error)) error {
		for i, elem := range slice {
			continueVisit, err := f(i, elem)
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
