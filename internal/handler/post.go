package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/auth"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/pagination"
	"github.com/avolkov/yatube/internal/service"
)

// maxUploadSize bounds how much of a multipart body is held in memory while
// parsing. Larger uploads spill to temp files.
const maxUploadSize = 10 << 20 // 10 MB

// PostHandler serves the feeds, post detail, and the create/edit forms.
type PostHandler struct {
	posts    *service.PostService
	groups   *service.GroupService
	comments *service.CommentService
	accounts *service.AuthService
	mediaDir string
	logger   *slog.Logger
}

func NewPostHandler(
	posts *service.PostService,
	groups *service.GroupService,
	comments *service.CommentService,
	accounts *service.AuthService,
	mediaDir string,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		posts:    posts,
		groups:   groups,
		comments: comments,
		accounts: accounts,
		mediaDir: mediaDir,
		logger:   logger,
	}
}

// HandleHome serves the paginated feed of all posts, newest first.
//
// HTTP: GET /?page=N
//
// This is the only route behind the page cache: within the TTL, repeated
// requests get the stored bytes without touching the database.
func (h *PostHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParseNumber(r.URL.Query().Get("page"))

	feed, err := h.posts.HomeFeed(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

type postDetailResponse struct {
	Post     *model.Post     `json:"post"`
	Comments []model.Comment `json:"comments"`
}

// HandleDetail serves a single post with its comments, newest first.
//
// HTTP: GET /posts/{id}/
func (h *PostHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postDetailResponse{
		Post:     post,
		Comments: comments,
	})
}

// HandleCreateForm serves what the create-post form needs: the group picker.
//
// HTTP: GET /create/ (behind RequireLogin)
func (h *PostHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// HandleCreate creates a post from form fields: text (required), group
// (optional slug), image (optional file). On success the browser is sent to
// the author's profile.
//
// HTTP: POST /create/ (behind RequireLogin)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, auth.LoginPath)
		return
	}

	imagePath, err := h.parsePostForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	_, err = h.posts.Create(r.Context(), userID,
		r.PostFormValue("text"), r.PostFormValue("group"), imagePath)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.accounts.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	redirect(w, r, "/profile/"+user.Username+"/")
}

type postEditResponse struct {
	Post   *model.Post   `json:"post"`
	Groups []model.Group `json:"groups"`
}

// HandleEditForm serves the edit form's payload: the current post plus the
// group picker. Anyone but the author is sent back to the post's detail page
// instead of seeing the form.
//
// HTTP: GET /posts/{id}/edit/ (behind RequireLogin)
func (h *PostHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	if post.AuthorID != userID {
		redirect(w, r, "/posts/"+id+"/")
		return
	}

	groups, err := h.groups.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postEditResponse{Post: post, Groups: groups})
}

// HandleEdit applies an edit. Non-authors get the same redirect-to-detail as
// the form, never a 403 — matching the site's browser-shaped navigation.
//
// HTTP: POST /posts/{id}/edit/ (behind RequireLogin)
func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, auth.LoginPath)
		return
	}

	imagePath, err := h.parsePostForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	_, err = h.posts.Edit(r.Context(), userID, id,
		r.PostFormValue("text"), r.PostFormValue("group"), imagePath)
	if err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			redirect(w, r, "/posts/"+id+"/")
			return
		}
		writeError(w, err)
		return
	}

	redirect(w, r, "/posts/"+id+"/")
}

// parsePostForm parses the request body for the create/edit forms and saves
// an uploaded image if one is present. Plain urlencoded bodies (no image) are
// accepted alongside multipart ones. Returns the stored image's relative
// path, or "" when no image was uploaded.
func (h *PostHandler) parsePostForm(r *http.Request) (string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", apperror.ValidationFailed("body", "invalid form body")
		}
		return "", nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", apperror.ValidationFailed("body", "invalid multipart body")
	}

	return h.saveImage(r)
}

// saveImage stores an uploaded image under mediaDir/posts/ with a fresh xid
// name, keeping the original extension. The returned path is relative to the
// media root, i.e. what gets served under /media/.
func (h *PostHandler) saveImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperror.ValidationFailed("image", "invalid image upload")
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return "", apperror.ValidationFailed("image", "uploaded file must be an image")
	}

	name := xid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	dir := filepath.Join(h.mediaDir, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating media directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	h.logger.Debug("image stored", slog.String("name", name))

	return path.Join("posts", name), nil
}
