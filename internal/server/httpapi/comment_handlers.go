package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type commentRequest struct {
	Content string `json:"content"`
}

// handleListComments handles GET /api/v1/comments/{videoID}?page=&limit=.
func (a *API) handleListComments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := a.comments.ListVideoComments(r.Context(), chi.URLParam(r, "videoID"), page, limit)
	if err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, list, "comments fetched")
}

// handleAddComment handles POST /api/v1/comments/{videoID}.
func (a *API) handleAddComment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[commentRequest](w, r)
	if !ok {
		return
	}

	comment, err := a.comments.AddComment(r.Context(), chi.URLParam(r, "videoID"), accountIDFromContext(r.Context()), req.Content)
	if err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, comment, "comment added")
}

// handleUpdateComment handles PATCH /api/v1/comments/c/{commentID}.
func (a *API) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[commentRequest](w, r)
	if !ok {
		return
	}

	comment, err := a.comments.UpdateComment(r.Context(), chi.URLParam(r, "commentID"), accountIDFromContext(r.Context()), req.Content)
	if err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, comment, "comment updated")
}

// handleDeleteComment handles DELETE /api/v1/comments/c/{commentID}.
func (a *API) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := a.comments.DeleteComment(r.Context(), chi.URLParam(r, "commentID"), accountIDFromContext(r.Context())); err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, nil, "comment deleted")
}
