package httpserver

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/and161185/blog-api/internal/convert"
	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/pagination"
)

// --- Auth ---

func (s *Server) signUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := s.auth.SignUp(c.UserContext(), req.Email, req.Name, req.Password); err != nil {
		return err
	}
	return reply(c, fiber.StatusCreated, "Sign up successfully", nil)
}

func (s *Server) signIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := s.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Sign in successfully", convert.ToSignedIn(u))
}

// --- Posts ---

// pageRequest reads ?page and ?search; a missing or non-numeric page is the first.
func pageRequest(c *fiber.Ctx) pagination.Request {
	page, _ := strconv.Atoi(c.Query("page"))
	return pagination.Request{Page: page, Search: c.Query("search")}
}

func (s *Server) listPosts(c *fiber.Ctx) error {
	r, err := s.posts.List(c.UserContext(), pageRequest(c))
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Retrieved post successfully", convert.ToPostPage(r))
}

func (s *Server) getPost(c *fiber.Ctx) error {
	p, err := s.posts.Get(c.UserContext(), c.Params("slugOrId"))
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Retrieved post successfully", convert.ToPost(*p))
}

func (s *Server) createPost(c *fiber.Ctx) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := s.posts.Create(c.UserContext(), me, req.toModel())
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusCreated, "Post created successfully", convert.ToPost(*p))
}

func (s *Server) updatePost(c *fiber.Ctx) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	id, err := convert.ParseID(c.Params("id"))
	if err != nil {
		return errs.New(errs.ErrNotFound, "No post found with id: %s", c.Params("id"))
	}
	var req updatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := s.posts.Update(c.UserContext(), me, id, req.toModel())
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Updated post successfully", convert.ToPost(*p))
}

func (s *Server) deletePost(c *fiber.Ctx) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	id, err := convert.ParseID(c.Params("id"))
	if err != nil {
		return errs.New(errs.ErrNotFound, "No post found with id: %s", c.Params("id"))
	}
	p, err := s.posts.Delete(c.UserContext(), me, id)
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Deleted post successfully", convert.ToPost(*p))
}

// --- Users ---

func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := convert.ParseID(c.Params("id"))
	if err != nil {
		return errs.New(errs.ErrNotFound, "No user found with id: %s", c.Params("id"))
	}
	u, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Retrieved user successfully", convert.ToUser(u))
}

func (s *Server) listUserPosts(c *fiber.Ctx) error {
	// a malformed id authored nothing; uuid.Nil yields the empty page
	id, _ := convert.ParseID(c.Params("id"))
	r, err := s.posts.ListByAuthor(c.UserContext(), id, pageRequest(c))
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Retrieved user's post successfully", convert.ToPostWithTagsPage(r))
}

func (s *Server) updateMe(c *fiber.Ctx) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := s.users.UpdateSelf(c.UserContext(), me, req.toChanges())
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Updated user successfully", convert.ToUser(u))
}

func (s *Server) deleteMe(c *fiber.Ctx) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	u, err := s.users.DeleteSelf(c.UserContext(), me)
	if err != nil {
		return err
	}
	return reply(c, fiber.StatusOK, "Deleted user successfully", convert.ToUser(u))
}
