package k8s

// CopySuffix is appended to the name of a duplicated element so the copy is
// immediately distinguishable; an empty source name stays empty and is left
// for uniqueness validation to flag.
const CopySuffix = "-copy"

// Append returns a new slice with v added at the end.
func Append[T any](list []T, v T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

// ReplaceAt returns a new slice with the element at index i replaced by v.
// Out-of-range indexes return the input unchanged.
func ReplaceAt[T any](list []T, i int, v T) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, len(list))
	copy(out, list)
	out[i] = v
	return out
}

// RemoveAt returns a new slice without the element at index i, preserving the
// order of the others. Out-of-range indexes return the input unchanged.
func RemoveAt[T any](list []T, i int) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// InsertAfter returns a new slice with v inserted immediately after index i.
// Out-of-range indexes return the input unchanged.
func InsertAfter[T any](list []T, i int, v T) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:i+1]...)
	out = append(out, v)
	return append(out, list[i+1:]...)
}

func copyName(name string) string {
	if name == "" {
		return ""
	}
	return name + CopySuffix
}
