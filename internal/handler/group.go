package handler

import (
	"log/slog"
	"net/http"

	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/pagination"
	"github.com/avolkov/yatube/internal/service"
)

// GroupHandler serves group pages.
type GroupHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewGroupHandler(posts *service.PostService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{posts: posts, logger: logger}
}

type groupPageResponse struct {
	Group *model.Group `json:"group"`
	*service.Feed
}

// HandleGroupPage serves a group's metadata and its paginated posts.
//
// HTTP: GET /group/{slug}/?page=N
// An unknown slug is a 404; the group exists independently of having posts.
func (h *GroupHandler) HandleGroupPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	page := pagination.ParseNumber(r.URL.Query().Get("page"))

	group, feed, err := h.posts.GroupFeed(r.Context(), slug, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groupPageResponse{Group: group, Feed: feed})
}
