package gapi

import "context"

// PageFunc fetches one page of results. It receives the page token from the
// previous call (empty on the first call) and returns the page's items and
// the next page token (empty when the listing is complete).
type PageFunc[T any] func(ctx context.Context, pageToken string) (items []T, nextPageToken string, err error)

// CollectPages accumulates items across pages until the listing is exhausted
// or max items have been collected. max <= 0 means no cap. Results are
// trimmed to max when the final page overshoots.
func CollectPages[T any](ctx context.Context, max int, fetch PageFunc[T]) ([]T, error) {
	var all []T
	pageToken := ""

	for {
		items, next, err := fetch(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if next == "" || (max > 0 && len(all) >= max) {
			break
		}
		pageToken = next
	}

	if max > 0 && len(all) > max {
		all = all[:max]
	}
	return all, nil
}

// ForeachPage invokes fn for every item across all pages. Iteration stops on
// the first error from fetch or fn.
func ForeachPage[T any](ctx context.Context, fetch PageFunc[T], fn func(T) error) error {
	pageToken := ""
	for {
		items, next, err := fetch(ctx, pageToken)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
		pageToken = next
	}
}
