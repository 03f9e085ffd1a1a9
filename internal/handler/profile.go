package handler

import (
	"log/slog"
	"net/http"

	"github.com/avolkov/yatube/internal/auth"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/pagination"
	"github.com/avolkov/yatube/internal/service"
)

// ProfileHandler serves author profiles, the follow feed, and the
// follow/unfollow actions.
type ProfileHandler struct {
	posts    *service.PostService
	follows  *service.FollowService
	accounts *service.AuthService
	logger   *slog.Logger
}

func NewProfileHandler(
	posts *service.PostService,
	follows *service.FollowService,
	accounts *service.AuthService,
	logger *slog.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		posts:    posts,
		follows:  follows,
		accounts: accounts,
		logger:   logger,
	}
}

type profileResponse struct {
	User      *model.User `json:"user"`
	Following bool        `json:"following"`
	*service.Feed
}

// HandleProfile serves an author's page: their account, whether the viewer
// follows them (always false for anonymous viewers), and their paginated
// posts. Post count is the feed's totalItems.
//
// HTTP: GET /profile/{username}/?page=N
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	page := pagination.ParseNumber(r.URL.Query().Get("page"))

	user, err := h.accounts.GetByUsername(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	feed, err := h.posts.AuthorFeed(r.Context(), user.ID, page)
	if err != nil {
		writeError(w, err)
		return
	}

	viewerID, _ := auth.UserIDFromContext(r.Context())
	following, err := h.follows.IsFollowing(r.Context(), viewerID, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:      user,
		Following: following,
		Feed:      feed,
	})
}

// HandleFollowFeed serves the viewer's personalized feed: posts by every
// author they follow. Never cached — each user sees a different feed.
//
// HTTP: GET /follow/?page=N (behind RequireLogin)
func (h *ProfileHandler) HandleFollowFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, auth.LoginPath)
		return
	}

	page := pagination.ParseNumber(r.URL.Query().Get("page"))

	feed, err := h.posts.FollowFeed(r.Context(), userID, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

// HandleFollow subscribes the viewer to an author, then returns to the
// author's profile. Following someone twice is a silent success.
//
// HTTP: GET /profile/{username}/follow/ (behind RequireLogin)
func (h *ProfileHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, auth.LoginPath)
		return
	}

	if err := h.follows.Follow(r.Context(), userID, username); err != nil {
		writeError(w, err)
		return
	}

	redirect(w, r, "/profile/"+username+"/")
}

// HandleUnfollow removes the subscription. Unfollowing someone never
// followed is also a silent success.
//
// HTTP: GET /profile/{username}/unfollow/ (behind RequireLogin)
func (h *ProfileHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, auth.LoginPath)
		return
	}

	if err := h.follows.Unfollow(r.Context(), userID, username); err != nil {
		writeError(w, err)
		return
	}

	redirect(w, r, "/profile/"+username+"/")
}
