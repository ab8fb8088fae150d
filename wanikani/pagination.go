package wanikani

import (
	"context"
	"fmt"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// PAGINATION
// ══════════════════════════════════════════════════════════════════════════════

// PageIterator walks a collection one page at a time, following the cursor
// links embedded in pages.next_url. Each page goes through the full request
// pipeline, so conditional requests and the rate governor apply per page.
//
// An iterator is single-use and not safe for concurrent use; run one
// goroutine per iterator.
type PageIterator struct {
	client   *Client
	next     string
	backward bool
	done     bool
	total    int64
}

// newIterator starts an iterator at the given absolute URL.
func (c *Client) newIterator(fullURL string) *PageIterator {
	return &PageIterator{client: c, next: fullURL}
}

// Backward flips the iterator to follow previous_url links, walking toward
// lower ids. Pair it with a filter cursor such as PageBeforeID. Call before
// the first Next.
func (it *PageIterator) Backward() *PageIterator {
	it.backward = true
	return it
}

// Next fetches the next page. It returns (nil, nil) once the collection is
// exhausted: after a page with no further cursor link, or after an empty
// page, which the API produces for a cursor past the end of the id range.
func (it *PageIterator) Next(ctx context.Context) (*resource.Collection, error) {
	if it.done {
		return nil, nil
	}

	env, err := it.client.GetResourceByURL(ctx, it.next)
	if err != nil {
		return nil, err
	}

	col, ok := env.(*resource.Collection)
	if !ok {
		return nil, fmt.Errorf("wanikani: %s: expected a collection, got %s", it.next, env.CommonData().Object)
	}

	it.total = col.TotalCount

	link := col.Pages.NextURL
	if it.backward {
		link = col.Pages.PreviousURL
	}
	if len(col.Data) == 0 || link == nil {
		it.done = true
	} else {
		it.next = *link
	}

	if len(col.Data) == 0 {
		return nil, nil
	}
	return col, nil
}

// TotalCount reports the collection-wide resource count from the most
// recently fetched page, or zero before the first page.
func (it *PageIterator) TotalCount() int64 { return it.total }

// Collect drains the iterator and returns every resource in order. The first
// page failure aborts the walk and discards pages already fetched.
func (it *PageIterator) Collect(ctx context.Context) ([]resource.Resource, error) {
	all, err := it.collect(ctx)
	if err != nil {
		return nil, err
	}
	return all, nil
}

// CollectPartial drains the iterator like Collect but keeps the resources
// fetched before a failure, returning them alongside the error.
func (it *PageIterator) CollectPartial(ctx context.Context) ([]resource.Resource, error) {
	return it.collect(ctx)
}

func (it *PageIterator) collect(ctx context.Context) ([]resource.Resource, error) {
	var all []resource.Resource
	for {
		page, err := it.Next(ctx)
		if err != nil {
			return all, err
		}
		if page == nil {
			return all, nil
		}
		all = append(all, page.Data...)
	}
}
