package rest

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/dmitrijs2005/pulsecity/internal/server/services"
	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	IDToken   string `json:"idToken"`
	ExpiresIn int64  `json:"expiresIn"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) fusedNews(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		location = s.opts.DefaultLocation
	}

	return c.JSON(http.StatusOK, s.deps.Feed.FetchFused(c.Request().Context(), location))
}

func (s *Server) redditNews(c echo.Context) error {
	body, err := s.deps.Reddit.FetchNewPosts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) register(c echo.Context) error {
	var account models.Account
	if err := c.Bind(&account); err != nil {
		return badRequest("malformed account")
	}

	updatedAt, err := s.deps.Accounts.Register(c.Request().Context(), account)
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, "User registered successfully at: "+updatedAt.Format(time.RFC3339Nano))
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed credentials")
	}

	token, ttl, err := s.deps.Accounts.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{IDToken: token, ExpiresIn: int64(ttl / time.Second)})
}

func (s *Server) hello(c echo.Context) error {
	return c.String(http.StatusOK, "hello")
}

func (s *Server) helloUser(c echo.Context) error {
	return c.String(http.StatusOK, "hello user")
}

func (s *Server) helloAdmin(c echo.Context) error {
	return c.String(http.StatusOK, "hello admin")
}

func (s *Server) profile(c echo.Context) error {
	p, ok := PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.ErrProfileMissing
	}

	account, err := s.deps.Accounts.Profile(c.Request().Context(), p.UID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, account)
}

func (s *Server) createPost(c echo.Context) error {
	p, ok := PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.ErrForbidden
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest("multipart form expected")
	}
	defer form.RemoveAll()

	description, ok := formValue(form, "description")
	if !ok {
		return badRequest("description is required")
	}
	lat, err := formFloat(form, "latitude")
	if err != nil {
		return err
	}
	lng, err := formFloat(form, "longitude")
	if err != nil {
		return err
	}

	in := services.PostInput{
		AuthorUID:   p.UID,
		Description: description,
		Latitude:    lat,
		Longitude:   lng,
	}

	var files []multipart.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, slot := range []struct {
		field string
		dst   **services.Attachment
	}{
		{"image", &in.Image},
		{"video", &in.Video},
		{"audio", &in.Audio},
	} {
		fhs := form.File[slot.field]
		if len(fhs) == 0 {
			continue
		}
		fh := fhs[0]
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", slot.field, err)
		}
		files = append(files, f)

		*slot.dst = &services.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}
	}

	if _, err := s.deps.Posts.Create(c.Request().Context(), in); err != nil {
		return err
	}

	return c.String(http.StatusOK, "Uploaded successfully!!!")
}

func formValue(form *multipart.Form, name string) (string, bool) {
	v, ok := form.Value[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func formFloat(form *multipart.Form, name string) (float64, error) {
	v, ok := formValue(form, name)
	if !ok {
		return 0, badRequest("%s is required", name)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, badRequest("invalid %s", name)
	}
	return f, nil
}
