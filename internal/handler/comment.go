package handler

import (
	"log/slog"
	"net/http"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/auth"
	"github.com/avolkov/yatube/internal/service"
)

// CommentHandler handles adding comments to posts.
type CommentHandler struct {
	comments *service.CommentService
	logger   *slog.Logger
}

func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// HandleAdd attaches a comment (form field "text") to a post and sends the
// browser back to the post's detail page.
//
// HTTP: POST /posts/{id}/comment/ (behind RequireLogin)
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, auth.LoginPath)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid form body"))
		return
	}

	if _, err := h.comments.Add(r.Context(), postID, userID, r.PostFormValue("text")); err != nil {
		writeError(w, err)
		return
	}

	redirect(w, r, "/posts/"+postID+"/")
}
