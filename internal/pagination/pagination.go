// Package pagination pages through any countable, offset-addressable collection.
// It knows nothing about the filter it passes along.
package pagination

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// DefaultPerPage is the page size used for post listings.
const DefaultPerPage = 10

// Request is the caller's page selection. Page is 1-based; values < 1 mean 1.
type Request struct {
	Page   int
	Search string
}

// Normalize returns the effective page number.
func (r Request) Normalize() int {
	if r.Page < 1 {
		return 1
	}
	return r.Page
}

// Source is a collection that can be counted and sliced under a query Q.
type Source[T any, Q any] interface {
	// Count returns the number of items matching q.
	Count(ctx context.Context, q Q) (int, error)
	// FindMany returns at most take items matching q after skipping skip of them.
	FindMany(ctx context.Context, q Q, skip, take int) ([]T, error)
}

// Meta describes the page returned alongside the data.
type Meta struct {
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	PerPage     int  `json:"perPage"`
	Prev        *int `json:"prev"`
	Next        *int `json:"next"`
}

// Result is one page of items. Data is never nil.
type Result[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Paginator carries the fixed page size of one collection type.
type Paginator struct {
	PerPage int
}

// New constructs a Paginator; perPage <= 0 falls back to DefaultPerPage.
func New(perPage int) Paginator {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return Paginator{PerPage: perPage}
}

// Paginate counts and fetches the requested page of src under q. Both store
// calls run concurrently; the first failure is returned as is.
func Paginate[T any, Q any](ctx context.Context, p Paginator, src Source[T, Q], req Request, q Q) (Result[T], error) {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := req.Normalize()
	// Pages whose offset does not fit an int lie past any collection; only
	// the count is needed. skip+perPage stays representable as well.
	fetch := page-1 <= (math.MaxInt-perPage)/perPage
	var skip int
	if fetch {
		skip = (page - 1) * perPage
	}

	var (
		total int
		items []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := src.Count(gctx, q)
		total = n
		return err
	})
	if fetch {
		g.Go(func() error {
			rows, err := src.FindMany(gctx, q, skip, perPage)
			items = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result[T]{}, err
	}

	if items == nil {
		items = []T{}
	}
	if len(items) > perPage {
		items = items[:perPage]
	}
	return Result[T]{Data: items, Meta: buildMeta(total, page, perPage)}, nil
}

// Map converts the items of a page, keeping its meta.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	out := make([]U, 0, len(r.Data))
	for _, v := range r.Data {
		out = append(out, f(v))
	}
	return Result[U]{Data: out, Meta: r.Meta}
}

func buildMeta(total, page, perPage int) Meta {
	totalPages := (total + perPage - 1) / perPage
	m := Meta{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PerPage:     perPage,
	}
	if page > 1 {
		prev := page - 1
		m.Prev = &prev
	}
	if page < totalPages {
		next := page + 1
		m.Next = &next
	}
	return m
}
