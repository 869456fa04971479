// Package httpserver exposes the blog HTTP API handlers.
package httpserver

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/and161185/blog-api/internal/service"
)

// Prefix is the version prefix of every API route.
const Prefix = "/v1"

// Server wires services into HTTP handlers.
type Server struct {
	auth   service.AuthService
	posts  service.PostService
	users  service.UserService
	tokens TokenVerifier
	log    *zap.Logger
}

// New constructs a server with injected services.
func New(auth service.AuthService, posts service.PostService, users service.UserService, tokens TokenVerifier, log *zap.Logger) *Server {
	return &Server{auth: auth, posts: posts, users: users, tokens: tokens, log: log}
}

// Route is one entry of the route table. Mode defaults to Required.
type Route struct {
	Method  string
	Path    string
	Mode    AuthMode
	Handler fiber.Handler
}

// Routes returns the route table, paths relative to Prefix.
func (s *Server) Routes() []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/auth/signup", Mode: Anonymous, Handler: s.signUp},
		{Method: fiber.MethodPost, Path: "/auth/signin", Mode: Anonymous, Handler: s.signIn},

		{Method: fiber.MethodGet, Path: "/posts", Mode: Anonymous, Handler: s.listPosts},
		{Method: fiber.MethodGet, Path: "/posts/:slugOrId", Mode: Anonymous, Handler: s.getPost},
		{Method: fiber.MethodPost, Path: "/posts", Handler: s.createPost},
		{Method: fiber.MethodPatch, Path: "/posts/:id", Handler: s.updatePost},
		{Method: fiber.MethodDelete, Path: "/posts/:id", Handler: s.deletePost},

		{Method: fiber.MethodPatch, Path: "/users/me", Handler: s.updateMe},
		{Method: fiber.MethodDelete, Path: "/users/me", Handler: s.deleteMe},
		{Method: fiber.MethodGet, Path: "/users/:id", Mode: Anonymous, Handler: s.getUser},
		{Method: fiber.MethodGet, Path: "/users/:id/posts", Mode: Anonymous, Handler: s.listUserPosts},
	}
}

// App builds the fiber application with middleware and all routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "blog-api",
		ErrorHandler:          ErrorHandler(s.log),
		DisableStartupMessage: true,
	})
	app.Use(Logging(s.log), Recover(s.log), cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	v1 := app.Group(Prefix)
	for _, r := range s.Routes() {
		v1.Add(r.Method, r.Path, access(r.Mode, s.tokens), r.Handler)
	}
	return app
}
