// Command blog is a CLI client for the blog HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "blog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "blog")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

// saveToken stores tok; a zero exp means the token never expires.
func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || (!tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt)) {
		return "", errors.New("no valid token (signin required)")
	}
	return tf.AccessToken, nil
}

func forgetToken() { _ = os.Remove(tokenPath()) }

// tokenExpiry reads exp from the token without verifying it.
func tokenExpiry(tok string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Time{}
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprintf(os.Stderr, `blog CLI
Usage:
  blog -addr URL <cmd> [args]

Commands:
  version
  signup     -email <email> -name <name> -p <password>
  signin     -email <email> -p <password>          (saves token)
  signout
  posts      [-page N] [-search text] [-user <uuid>]
  post       -id <slug or uuid>
  create     -title T -slug S (-content C | -file F) [-tags a,b] [-published true|false]
  update     -id <uuid> [-title T] [-slug S] [-content C | -file F] [-tags a,b] [-published true|false]
  delete     -id <uuid>
  user       -id <uuid>
  me-update  [-email E] [-name N] [-p P]
  me-delete
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands and attaches the saved token to authenticated calls.
func main() {
	// global flags
	addr := flag.String("addr", "http://localhost:3000", "server URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	authed := func() *client {
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		return newClient(*addr, token)
	}

	switch cmd {

	case "version":
		fmt.Printf("blog %s (%s)\n", version, buildDate)

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		email := fs.String("email", "", "email")
		name := fs.String("name", "", "display name")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *email == "" || *name == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email, -name and -p")
			os.Exit(1)
		}
		out, err := newClient(*addr, "").do(ctx, http.MethodPost, "/auth/signup", nil,
			map[string]string{"email": *email, "name": *name, "password": *p})
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "signin":
		fs := flag.NewFlagSet("signin", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}
		if err := signIn(ctx, newClient(*addr, ""), *email, *p); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "signout":
		forgetToken()
		fmt.Println("ok")

	case "posts":
		fs := flag.NewFlagSet("posts", flag.ExitOnError)
		page := fs.Int("page", 1, "page number")
		search := fs.String("search", "", "search in titles, tags and author names")
		user := fs.String("user", "", "only posts of this author (uuid)")
		_ = fs.Parse(args)

		q := url.Values{}
		q.Set("page", strconv.Itoa(*page))
		if *search != "" {
			q.Set("search", *search)
		}
		path := "/posts"
		if *user != "" {
			path = "/users/" + url.PathEscape(*user) + "/posts"
		}
		out, err := newClient(*addr, "").do(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "post":
		fs := flag.NewFlagSet("post", flag.ExitOnError)
		id := fs.String("id", "", "post slug or id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		out, err := newClient(*addr, "").do(ctx, http.MethodGet, "/posts/"+url.PathEscape(*id), nil, nil)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		var pf postFlags
		pf.register(fs)
		_ = fs.Parse(args)
		body, err := pf.body()
		if err != nil {
			fail(err)
		}
		out, err := authed().do(ctx, http.MethodPost, "/posts", nil, body)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		id := fs.String("id", "", "post id (uuid)")
		var pf postFlags
		pf.register(fs)
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		body, err := pf.body()
		if err != nil {
			fail(err)
		}
		out, err := authed().do(ctx, http.MethodPatch, "/posts/"+url.PathEscape(*id), nil, body)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.String("id", "", "post id (uuid)")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		out, err := authed().do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(*id), nil, nil)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "user":
		fs := flag.NewFlagSet("user", flag.ExitOnError)
		id := fs.String("id", "", "user id (uuid)")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		out, err := newClient(*addr, "").do(ctx, http.MethodGet, "/users/"+url.PathEscape(*id), nil, nil)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "me-update":
		fs := flag.NewFlagSet("me-update", flag.ExitOnError)
		email := fs.String("email", "", "new email")
		name := fs.String("name", "", "new display name")
		p := fs.String("p", "", "new password")
		_ = fs.Parse(args)
		body := map[string]string{}
		for k, v := range map[string]string{"email": *email, "name": *name, "password": *p} {
			if v != "" {
				body[k] = v
			}
		}
		if len(body) == 0 {
			fmt.Fprintln(os.Stderr, "nothing to update")
			os.Exit(1)
		}
		out, err := authed().do(ctx, http.MethodPatch, "/users/me", nil, body)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "me-delete":
		out, err := authed().do(ctx, http.MethodDelete, "/users/me", nil, nil)
		if err != nil {
			fail(err)
		}
		forgetToken()
		printJSON(out)

	default:
		usage()
	}
}

// signIn exchanges credentials for a token and saves it.
func signIn(ctx context.Context, c *client, email, password string) error {
	out, err := c.do(ctx, http.MethodPost, "/auth/signin", nil,
		map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(out, &res); err != nil {
		return fmt.Errorf("decode signin result: %w", err)
	}
	if res.AccessToken == "" {
		return errors.New("server returned no token")
	}
	return saveToken(res.AccessToken, tokenExpiry(res.AccessToken))
}

func fail(err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		fmt.Fprintf(os.Stderr, "api error: status=%d msg=%s\n", ae.Status, ae.Message)
		if ae.Status == http.StatusUnauthorized {
			fmt.Fprintln(os.Stderr, "hint: run signin again")
		}
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
