package core

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Order int

const (
	Ascending Order = iota
	Descending
)

var orderNames = []string{"asc", "desc"}

func ParseOrder(s string) (Order, error) {
	switch CleanString(s, true /* lower */) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, UnknownChoiceError("order", s, orderNames)
	}
}

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Compare returns a negative number when a sorts before b, a positive one when after, 0 when equal.
type Compare[T any] func(a, b T) int

func ByString[T any](field func(T) string) Compare[T] {
	return func(a, b T) int { return strings.Compare(field(a), field(b)) }
}

func ByInt[T any](field func(T) int) Compare[T] {
	return func(a, b T) int {
		x, y := field(a), field(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
}

func ByID[T any](field func(T) ID) Compare[T] {
	return func(a, b T) int { return CompareIDs(field(a), field(b)) }
}

// ByDate compares wire dates by calendar value, so "2024-2-1" sorts before "2024-10-1".
func ByDate[T any](field func(T) string) Compare[T] {
	return func(a, b T) int { return CompareDates(field(a), field(b)) }
}

// SortKeys returns the names of the supported keys in a stable order.
func SortKeys[T any](keys map[string]Compare[T]) []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sort returns a sorted copy of items. Equal keys keep their input order in both directions.
func Sort[T any](items []T, keys map[string]Compare[T], key string, order Order) ([]T, error) {
	cmp, ok := keys[key]
	if !ok {
		return nil, errors.WithStack(UnknownChoiceError("sort", key, SortKeys(keys)))
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(sorted[i], sorted[j])
		if order == Descending {
			c = -c
		}
		return c < 0
	})
	return sorted, nil
}
