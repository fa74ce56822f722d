package vectra

import (
	"errors"
	"iter"
)

// ErrEmptyIterator is returned by First when the iterator yields no items.
var ErrEmptyIterator = errors.New("iterator is empty")

// Collect gathers all items from an iterator into a slice.
// It stops on the first error and returns all items collected so far
// along with the error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	result := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return result, err
		}
		result = append(result, item)
	}
	return result, nil
}

// First returns the first item from an iterator, or an error if the
// iterator is empty or fails.
func First[T any](seq iter.Seq2[T, error]) (T, error) {
	for item, err := range seq {
		return item, err
	}
	var zero T
	return zero, ErrEmptyIterator
}

// CollectResults flattens a page iterator into a single slice of
// results, using the given accessor to extract each page's items:
//
//	hosts, err := vectra.CollectResults(
//	    client.Hosts.ListAll(ctx, nil),
//	    func(p *vectra.HostPage) []vectra.Host { return p.Results },
//	)
func CollectResults[P, T any](seq iter.Seq2[P, error], results func(P) []T) ([]T, error) {
	out := make([]T, 0)
	for page, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, results(page)...)
	}
	return out, nil
}
