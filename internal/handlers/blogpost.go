package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microblog/apiserver/internal/services"
	"github.com/microblog/apiserver/internal/store"
	"github.com/microblog/apiserver/types"
)

const msgPermissionDenied = "permission denied"

// BlogpostHandler provides HTTP handlers for blogposts.
type BlogpostHandler struct {
	blogpostService *services.BlogpostService
}

// NewBlogpostHandler constructs a handler with the provided service.
func NewBlogpostHandler(blogpostService *services.BlogpostService) *BlogpostHandler {
	return &BlogpostHandler{blogpostService: blogpostService}
}

// BlogpostRouter registers blogpost routes on the given router. Reads are
// public; writes require authentication and, for existing posts, ownership.
func BlogpostRouter(
	r chi.Router,
	blogpostService *services.BlogpostService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewBlogpostHandler(blogpostService)

	r.Get("/", handler.List)
	r.With(authMiddleware).Post("/", handler.Create)
	r.Route("/{blogpostID}", func(r chi.Router) {
		r.Get("/", handler.GetOne)
		r.With(authMiddleware).Put("/", handler.Update)
		r.With(authMiddleware).Delete("/", handler.Delete)
	})
}

type CreateBlogpostRequest struct {
	Title    string `json:"title"`
	Contents string `json:"contents"`
}

// UpdateBlogpostRequest carries a partial post update. Absent fields are
// left unchanged.
type UpdateBlogpostRequest struct {
	Title    *string `json:"title"`
	Contents *string `json:"contents"`
}

// Create stores a new post owned by the authenticated user.
func (h *BlogpostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, msgUserGone)
		return
	}

	var req CreateBlogpostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)

	fieldErrs := FieldErrors{}
	if req.Title == "" {
		fieldErrs["title"] = "missing required field"
	}
	if strings.TrimSpace(req.Contents) == "" {
		fieldErrs["contents"] = "missing required field"
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	created, err := h.blogpostService.Create(r.Context(), types.Blogpost{
		Title:    req.Title,
		Contents: req.Contents,
		OwnerID:  ownerID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List returns all posts.
func (h *BlogpostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogpostService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetOne returns a single post by id.
func (h *BlogpostHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := parseBlogpostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.blogpostService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Update applies a partial update to a post the requester owns.
func (h *BlogpostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseBlogpostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, msgUserGone)
		return
	}

	post, err := h.blogpostService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	if post.OwnerID != userID {
		writeError(w, http.StatusBadRequest, msgPermissionDenied)
		return
	}

	var req UpdateBlogpostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	fieldErrs := FieldErrors{}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		fieldErrs["title"] = "must not be blank"
	}
	if req.Contents != nil && strings.TrimSpace(*req.Contents) == "" {
		fieldErrs["contents"] = "must not be blank"
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Contents != nil {
		post.Contents = *req.Contents
	}

	updated, err := h.blogpostService.Update(r.Context(), post)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a post the requester owns.
func (h *BlogpostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseBlogpostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, msgUserGone)
		return
	}

	post, err := h.blogpostService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	if post.OwnerID != userID {
		writeError(w, http.StatusBadRequest, msgPermissionDenied)
		return
	}

	if err := h.blogpostService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseBlogpostID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "blogpostID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid post id")
	}
	return id, nil
}
