package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/server/models"
	"github.com/scribe-blog/scribe/internal/server/services"
	"github.com/scribe-blog/scribe/internal/server/validate"
)

type PostHandlers struct {
	posts services.Posts
}

func NewPostHandlers(posts services.Posts) *PostHandlers {
	return &PostHandlers{posts: posts}
}

func (h *PostHandlers) List(c echo.Context) error {
	cursor, _ := strconv.Atoi(c.QueryParam("cursor"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filters := models.PostFilters{
		Cursor:   cursor,
		Limit:    limit,
		Order:    c.QueryParam("order"),
		Username: c.QueryParam("user"),
		Category: c.QueryParam("category"),
	}

	posts, nextCursor, err := h.posts.List(c.Request().Context(), filters)
	if err != nil {
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when getting posts")
	}

	if posts == nil {
		posts = []models.Post{}
	}

	return JSON(c, http.StatusOK, Response{
		Data: map[string]any{
			"posts":       posts,
			"next_cursor": nextCursor,
		},
	})
}

func (h *PostHandlers) Get(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Message(c, http.StatusNotFound, "Post not found")
		}
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when getting post")
	}

	return JSON(c, http.StatusOK, Response{Data: post})
}

func (h *PostHandlers) Create(c echo.Context) error {
	var payload models.PostCreateInput

	if err := c.Bind(&payload); err != nil {
		return Message(c, http.StatusBadRequest, "Error decoding json")
	}

	if errs := validate.Struct(payload); errs != nil {
		return Invalid(c, errs)
	}

	post, err := h.posts.Create(c.Request().Context(), authId(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return Message(c, http.StatusNotFound, "Category not found")
		case errors.Is(err, common.ErrDuplicateTitle):
			return Message(c, http.StatusConflict, "Title already in use")
		default:
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when creating post")
		}
	}

	return JSON(c, http.StatusOK, Response{Data: post})
}

func (h *PostHandlers) Update(c echo.Context) error {
	var payload models.PostUpdateInput

	if err := c.Bind(&payload); err != nil {
		return Message(c, http.StatusBadRequest, "Error decoding json")
	}

	if errs := validate.Struct(payload); errs != nil {
		return Invalid(c, errs)
	}

	post, err := h.posts.Update(c.Request().Context(), authId(c), c.Param("slug"), payload)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return Message(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, common.ErrUnauthorized):
			return Message(c, http.StatusForbidden, "You are not allowed to modify this post")
		case errors.Is(err, common.ErrDuplicateTitle):
			return Message(c, http.StatusConflict, "Title already in use")
		default:
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when updating post")
		}
	}

	return JSON(c, http.StatusOK, Response{Data: post})
}

func (h *PostHandlers) Delete(c echo.Context) error {
	err := h.posts.Delete(c.Request().Context(), authId(c), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return Message(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, common.ErrUnauthorized):
			return Message(c, http.StatusForbidden, "You are not allowed to modify this post")
		default:
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when deleting post")
		}
	}

	return Message(c, http.StatusOK, "Post deleted")
}

func (h *PostHandlers) Categories(c echo.Context) error {
	categories, err := h.posts.Categories(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when getting categories")
	}

	return JSON(c, http.StatusOK, Response{Data: categories})
}
