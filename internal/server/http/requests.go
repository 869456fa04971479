package httpserver

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/and161185/blog-api/internal/service"
)

var noWhitespace = regexp.MustCompile(`^\S+$`)

// strongPassword requires at least 8 bytes (72 at most, the bcrypt limit)
// with a lowercase letter, an uppercase letter, a digit and a symbol.
var strongPassword = []validation.Rule{
	validation.Length(8, 72),
	validation.By(func(value any) error {
		v, isNil := validation.Indirect(value)
		s, _ := v.(string)
		if isNil || s == "" {
			return nil
		}
		var lower, upper, digit, symbol bool
		for _, r := range s {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			case unicode.IsPunct(r) || unicode.IsSymbol(r):
				symbol = true
			}
		}
		if !lower || !upper || !digit || !symbol {
			return errors.New("is not strong enough")
		}
		return nil
	}),
}

func tagsRule(value any) error {
	tags, _ := value.([]string)
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return errors.New("must not contain empty tags")
		}
	}
	return nil
}

// validator is implemented by every request body.
type validator interface {
	Validate() error
}

// bind decodes the JSON body into req and validates it.
func bind(c *fiber.Ctx, req validator) error {
	if err := c.BodyParser(req); err != nil {
		return errs.New(errs.ErrValidation, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errs.New(errs.ErrValidation, "%s", err.Error())
	}
	return nil
}

type signUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r signUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.Password, append([]validation.Rule{validation.Required}, strongPassword...)...),
	)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

type createPostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Slug      string   `json:"slug"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

func (r createPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Slug, validation.Required, validation.Match(noWhitespace).Error("must not contain whitespace")),
		validation.Field(&r.Tags, validation.By(tagsRule)),
	)
}

func (r createPostRequest) toModel() model.NewPost {
	np := model.NewPost{Title: r.Title, Content: r.Content, Slug: r.Slug, Tags: r.Tags}
	if r.Published != nil {
		np.Published = *r.Published
	}
	return np
}

type updatePostRequest struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Slug      *string  `json:"slug"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

func (r updatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Match(noWhitespace).Error("must not contain whitespace")),
		validation.Field(&r.Tags, validation.By(tagsRule)),
	)
}

func (r updatePostRequest) toModel() model.PostUpdate {
	return model.PostUpdate{
		Title:     r.Title,
		Content:   r.Content,
		Slug:      r.Slug,
		Published: r.Published,
		Tags:      r.Tags,
	}
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (r updateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
		validation.Field(&r.Password, append([]validation.Rule{validation.NilOrNotEmpty}, strongPassword...)...),
	)
}

func (r updateUserRequest) toChanges() service.UserChanges {
	return service.UserChanges{Email: r.Email, Name: r.Name, Password: r.Password}
}
