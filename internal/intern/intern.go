// Package intern provides thread-safe string interning for option
// tables. A tablegen dump repeats the same prefix and spelling strings
// thousands of times; interning collapses them to one canonical copy
// shared by every table and parse result.
package intern

import (
	"sync"
	"unsafe"
)

// StringInterner provides thread-safe string interning
type StringInterner struct {
	strings map[string]string
	mutex   sync.RWMutex
}

// NewStringInterner creates a new string interner with optional pre-allocated capacity
func NewStringInterner(capacity int) *StringInterner {
	if capacity <= 0 {
		capacity = 64 // Default capacity
	}
	return &StringInterner{
		strings: make(map[string]string, capacity),
	}
}

// Intern interns a string, returning the canonical version
// Thread-safe and optimized for high-frequency access
func (si *StringInterner) Intern(s string) string {
	// Fast path: read lock for common case
	si.mutex.RLock()
	if interned, exists := si.strings[s]; exists {
		si.mutex.RUnlock()
		return interned
	}
	si.mutex.RUnlock()

	// Slow path: write lock for insertion
	si.mutex.Lock()
	defer si.mutex.Unlock()

	// Double-check after acquiring write lock
	if interned, exists := si.strings[s]; exists {
		return interned
	}

	si.strings[s] = s
	return s
}

// InternBytes interns a byte slice. The lookup is allocation-free; a
// stable copy is made only when the string is seen for the first time,
// so callers may hand in reused scratch buffers.
func (si *StringInterner) InternBytes(b []byte) string {
	key := bytesToString(b)

	si.mutex.RLock()
	if interned, exists := si.strings[key]; exists {
		si.mutex.RUnlock()
		return interned
	}
	si.mutex.RUnlock()

	si.mutex.Lock()
	defer si.mutex.Unlock()

	if interned, exists := si.strings[key]; exists {
		return interned
	}

	// First sighting: detach from the caller's buffer.
	s := string(b)
	si.strings[s] = s
	return s
}

// PreIntern adds common strings to avoid allocation during parsing
func (si *StringInterner) PreIntern(strings []string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	for _, s := range strings {
		si.strings[s] = s
	}
}

// Stats returns the number of interned strings for monitoring.
func (si *StringInterner) Stats() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()
	return len(si.strings)
}

// Clear removes all interned strings (useful for testing)
func (si *StringInterner) Clear() {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	// Clear map without reallocating
	for k := range si.strings {
		delete(si.strings, k)
	}
}

// CommonPrefixes contains the prefix strings LLVM-family option tables
// declare, pre-interned so table construction never misses on them.
var CommonPrefixes = []string{
	"-", "--", "/", "-?", "--?", "/?",
}

// bytesToString converts byte slice to string without allocation
// Uses unsafe pointer conversion for zero-copy operation
func bytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// GlobalInterner is the process-wide interner shared by table
// construction and parsing.
var GlobalInterner *StringInterner

//nolint:gochecknoinits // Global interner requires init for pre-interning
func init() {
	GlobalInterner = NewStringInterner(128)
	GlobalInterner.PreIntern(CommonPrefixes)
}

// Intern interns a string using the global interner
func Intern(s string) string {
	return GlobalInterner.Intern(s)
}

// InternBytes interns a byte slice using the global interner
func InternBytes(b []byte) string {
	return GlobalInterner.InternBytes(b)
}
