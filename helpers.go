package mcptools

import (
	"context"
	"fmt"
)

// FetchAll follows cursors until the last page and returns every item. A
// cursor seen twice is an error rather than an endless loop.
func FetchAll[T any](
	ctx context.Context,
	fetch func(ctx context.Context, cursor *string) ([]T, *string, error),
) ([]T, error) {
	var allItems []T
	var cursor *string
	seen := make(map[string]bool)

	for {
		items, nextCursor, err := fetch(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch failed: %w", err)
		}
		allItems = append(allItems, items...)

		if nextCursor == nil {
			return allItems, nil
		}
		if seen[*nextCursor] {
			return nil, fmt.Errorf("fetch failed: cursor %q repeated", *nextCursor)
		}
		seen[*nextCursor] = true
		cursor = nextCursor
	}
}
