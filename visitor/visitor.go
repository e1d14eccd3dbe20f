// Package visitor offers generic visitors for common container types.
// It provides reflection-backed iteration over maps and slices with simple
// callback-based traversal, plus a small thread-safe map used for type caches.
package visitor

// Visitor visits (key, element) pairs until the callback stops or errs.
type Visitor[K any, E any] func(f func(key K, element E) (bool, error)) error
