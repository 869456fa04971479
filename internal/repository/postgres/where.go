package postgres

import (
	"strconv"
	"strings"

	"github.com/and161185/blog-api/internal/model"
)

// args collects positional parameters while a statement is assembled.
type args struct{ vals []any }

// add appends v and returns its placeholder.
func (a *args) add(v any) string {
	a.vals = append(a.vals, v)
	return "$" + strconv.Itoa(len(a.vals))
}

func and(preds ...string) string { return join(" AND ", preds) }

func or(preds ...string) string { return join(" OR ", preds) }

func join(sep string, preds []string) string {
	out := make([]string, 0, len(preds))
	for _, p := range preds {
		if p != "" {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return ""
	case 1:
		return out[0]
	}
	return "(" + strings.Join(out, sep) + ")"
}

// containsPattern turns s into a LIKE pattern matching s anywhere.
// Backslash is the default LIKE escape character in Postgres.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// postWhere renders the WHERE clause of a post query over the aliases
// p (posts) and u (authors). It returns "" when nothing filters.
func postWhere(w model.PostWhere, a *args) string {
	var author, search string
	if w.AuthorID != nil {
		author = "p.author_id = " + a.add(*w.AuthorID)
	}
	if w.Search != "" {
		ph := a.add(containsPattern(w.Search))
		search = or(
			"p.title LIKE "+ph,
			"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.tag_name LIKE "+ph+")",
			"u.name LIKE "+ph,
		)
	}
	cond := and(author, search)
	if cond == "" {
		return ""
	}
	return " WHERE " + cond
}

func postOrder(o model.PostOrder) string {
	if o == model.OrderCreatedDesc {
		return " ORDER BY p.created_at DESC, p.id DESC"
	}
	return " ORDER BY p.created_at ASC, p.id ASC"
}
