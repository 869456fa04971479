package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"
)

// postFlags are the post fields shared by create and update.
type postFlags struct {
	title, slug, content, file, tags string
	published                        *bool
}

func (p *postFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.title, "title", "", "post title")
	fs.StringVar(&p.slug, "slug", "", "post slug (no spaces)")
	fs.StringVar(&p.content, "content", "", "post content")
	fs.StringVar(&p.file, "file", "", "read content from file ('-'=stdin)")
	fs.StringVar(&p.tags, "tags", "", "comma separated tags")
	fs.Func("published", "true|false", func(s string) error {
		switch s {
		case "true":
			v := true
			p.published = &v
		case "false":
			v := false
			p.published = &v
		default:
			return errors.New("want true or false")
		}
		return nil
	})
}

// body builds the JSON payload with only the fields that were set.
func (p *postFlags) body() (map[string]any, error) {
	out := map[string]any{}
	if p.title != "" {
		out["title"] = p.title
	}
	if p.slug != "" {
		out["slug"] = p.slug
	}
	content := p.content
	if p.file != "" {
		b, err := readAll(p.file)
		if err != nil {
			return nil, err
		}
		content = string(b)
	}
	if content != "" {
		out["content"] = content
	}
	if tags := splitTags(p.tags); len(tags) > 0 {
		out["tags"] = tags
	}
	if p.published != nil {
		out["published"] = *p.published
	}
	return out, nil
}

// splitTags parses "a, b,,c" into [a b c].
func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}
