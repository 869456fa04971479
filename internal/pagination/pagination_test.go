package pagination

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type evenOnly bool

// sliceSource pages through an in-memory slice; a true evenOnly query keeps even values.
type sliceSource struct {
	items    []int
	countErr error
	findErr  error

	lastSkip, lastTake int
}

func (s *sliceSource) filter(q evenOnly) []int {
	if !q {
		return s.items
	}
	var out []int
	for _, v := range s.items {
		if v%2 == 0 {
			out = append(out, v)
		}
	}
	return out
}

func (s *sliceSource) Count(_ context.Context, q evenOnly) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.filter(q)), nil
}

func (s *sliceSource) FindMany(_ context.Context, q evenOnly, skip, take int) ([]int, error) {
	s.lastSkip, s.lastTake = skip, take
	if s.findErr != nil {
		return nil, s.findErr
	}
	all := s.filter(q)
	if skip >= len(all) {
		return nil, nil
	}
	end := skip + take
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestRequest_Normalize(t *testing.T) {
	t.Parallel()
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 7: 7} {
		require.Equal(t, want, Request{Page: in}.Normalize())
	}
}

func TestPaginate_SumOfPagesEqualsTotal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, perPage := range []int{1, 3, 10} {
		for _, n := range []int{0, 1, 9, 10, 11, 25, 100} {
			src := &sliceSource{items: seq(n)}
			p := New(perPage)

			first, err := Paginate[int, evenOnly](ctx, p, src, Request{Page: 1}, false)
			require.NoError(t, err)
			wantPages := (n + perPage - 1) / perPage
			require.Equal(t, wantPages, first.Meta.TotalPages, "n=%d perPage=%d", n, perPage)

			var seen []int
			for page := 1; page <= first.Meta.TotalPages; page++ {
				r, err := Paginate[int, evenOnly](ctx, p, src, Request{Page: page}, false)
				require.NoError(t, err)
				require.LessOrEqual(t, len(r.Data), perPage)
				require.Equal(t, n, r.Meta.Total)
				require.Equal(t, page, r.Meta.CurrentPage)
				seen = append(seen, r.Data...)
			}
			require.Len(t, seen, n)
			for i, v := range seen {
				require.Equal(t, i, v, "stable order across pages")
			}

			past, err := Paginate[int, evenOnly](ctx, p, src, Request{Page: wantPages + 1}, false)
			require.NoError(t, err)
			require.NotNil(t, past.Data)
			require.Empty(t, past.Data)
			require.Equal(t, n, past.Meta.Total)
			require.Nil(t, past.Meta.Next)
		}
	}
}

func TestPaginate_EmptyCollection(t *testing.T) {
	t.Parallel()

	r, err := Paginate[int, evenOnly](context.Background(), New(10), &sliceSource{}, Request{}, false)
	require.NoError(t, err)
	require.Equal(t, 0, r.Meta.Total)
	require.Equal(t, 0, r.Meta.TotalPages)
	require.Equal(t, 1, r.Meta.CurrentPage)
	require.NotNil(t, r.Data)
	require.Empty(t, r.Data)
	require.Nil(t, r.Meta.Prev)
	require.Nil(t, r.Meta.Next)
}

func TestPaginate_SkipTakeAndMeta(t *testing.T) {
	t.Parallel()

	src := &sliceSource{items: seq(25)}
	r, err := Paginate[int, evenOnly](context.Background(), New(10), src, Request{Page: 2}, false)
	require.NoError(t, err)
	require.Equal(t, 10, src.lastSkip)
	require.Equal(t, 10, src.lastTake)
	require.Equal(t, seq(20)[10:], r.Data)
	require.Equal(t, 3, r.Meta.TotalPages)
	require.Equal(t, 10, r.Meta.PerPage)
	require.NotNil(t, r.Meta.Prev)
	require.Equal(t, 1, *r.Meta.Prev)
	require.NotNil(t, r.Meta.Next)
	require.Equal(t, 3, *r.Meta.Next)
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	t.Parallel()

	for _, page := range []int{math.MaxInt / 10, math.MaxInt/10 + 1, math.MaxInt} {
		src := &sliceSource{items: seq(3), lastSkip: -1}
		r, err := Paginate[int, evenOnly](context.Background(), New(10), src, Request{Page: page}, false)
		require.NoError(t, err)
		require.NotNil(t, r.Data)
		require.Empty(t, r.Data, "page=%d", page)
		require.Equal(t, 3, r.Meta.Total)
		require.Equal(t, 1, r.Meta.TotalPages)
		require.Equal(t, page, r.Meta.CurrentPage)
		require.Nil(t, r.Meta.Next)
		require.GreaterOrEqual(t, src.lastSkip, -1, "skip must never go negative")
	}
}

func TestPaginate_InvalidPageDefaultsToFirst(t *testing.T) {
	t.Parallel()

	src := &sliceSource{items: seq(5)}
	for _, page := range []int{0, -1} {
		r, err := Paginate[int, evenOnly](context.Background(), New(10), src, Request{Page: page}, false)
		require.NoError(t, err)
		require.Equal(t, 1, r.Meta.CurrentPage)
		require.Equal(t, 0, src.lastSkip)
		require.Len(t, r.Data, 5)
	}
}

func TestPaginate_QueryPassedThrough(t *testing.T) {
	t.Parallel()

	src := &sliceSource{items: seq(21)}
	r, err := Paginate[int, evenOnly](context.Background(), New(4), src, Request{Page: 3}, true)
	require.NoError(t, err)
	require.Equal(t, 11, r.Meta.Total)
	require.Equal(t, 3, r.Meta.TotalPages)
	require.Equal(t, []int{16, 18, 20}, r.Data)
}

func TestPaginate_StoreErrorsPropagate(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")

	_, err := Paginate[int, evenOnly](context.Background(), New(10), &sliceSource{items: seq(3), countErr: boom}, Request{}, false)
	require.ErrorIs(t, err, boom)

	_, err = Paginate[int, evenOnly](context.Background(), New(10), &sliceSource{items: seq(3), findErr: boom}, Request{}, false)
	require.ErrorIs(t, err, boom)
}

func TestNew_DefaultPerPage(t *testing.T) {
	t.Parallel()
	require.Equal(t, DefaultPerPage, New(0).PerPage)
	require.Equal(t, DefaultPerPage, New(-3).PerPage)
	require.Equal(t, 7, New(7).PerPage)
}

func TestMap(t *testing.T) {
	t.Parallel()

	in := Result[int]{Data: []int{1, 2}, Meta: Meta{Total: 2, TotalPages: 1, CurrentPage: 1, PerPage: 10}}
	out := Map(in, func(v int) string { return string(rune('a' + v)) })
	require.Equal(t, []string{"b", "c"}, out.Data)
	require.Equal(t, in.Meta, out.Meta)

	empty := Map(Result[int]{}, func(v int) int { return v })
	require.NotNil(t, empty.Data)
}
