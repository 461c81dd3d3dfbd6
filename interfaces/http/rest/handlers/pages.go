package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/application/services"
	"snapgram-backend/domain/social"
	"snapgram-backend/pkg/auth"
	"snapgram-backend/pkg/common"
	apperrors "snapgram-backend/pkg/errors"
)

const homeFeedLimit = 10

// PageHandler renders the server-side HTML views.
type PageHandler struct {
	users    *services.UserDirectory
	posts    *services.Posts
	renderer ports.Renderer
	logger   *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	users *services.UserDirectory,
	posts *services.Posts,
	renderer ports.Renderer,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		users:    users,
		posts:    posts,
		renderer: renderer,
		logger:   logger,
	}
}

// Home renders the global feed of recent posts.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	posts, err := h.posts.ListRecent(r.Context(), homeFeedLimit)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.refreshAuthors(r, posts)

	h.render(w, r, "home.html", map[string]interface{}{
		"current_user": user,
		"posts":        posts,
	})
}

// refreshAuthors overlays each post's denormalized author name and
// profile picture with the author's current record, so a renamed author
// shows fresh on the feed. A failed lookup keeps the stored values.
func (h *PageHandler) refreshAuthors(r *http.Request, posts []*social.Post) {
	authors := make(map[string]*social.User)
	for _, p := range posts {
		author, seen := authors[p.AuthorID]
		if !seen {
			var err error
			author, err = h.users.Get(r.Context(), p.AuthorID)
			if err != nil {
				h.logger.Debug("Could not refresh post author",
					zap.String("authorID", p.AuthorID),
					zap.Error(err))
			}
			authors[p.AuthorID] = author
		}
		if author != nil {
			p.AuthorName = author.Name
			p.AuthorProfilePicture = author.ProfilePicture
		}
	}
}

// Login renders the sign-in page. A visitor who already has a valid
// session is sent to the feed instead.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetUserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", map[string]interface{}{})
}

// Signup renders the registration page.
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetUserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "signup.html", map[string]interface{}{})
}

// Profile renders a user's profile with their posts.
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	userID := chi.URLParam(r, "userID")
	profileUser, err := h.users.Get(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), profileUser.ID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, "profile.html", map[string]interface{}{
		"current_user":   current,
		"profile_user":   profileUser,
		"posts":          posts,
		"is_own_profile": current.ID == profileUser.ID,
		"is_following":   current.IsFollowing(profileUser.ID),
	})
}

// EditProfile renders the profile update form for the signed-in user.
func (h *PageHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.render(w, r, "update_profile.html", map[string]interface{}{
		"current_user": current,
		"profile_user": current,
	})
}

// CreatePostForm renders the new post form.
func (h *PageHandler) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.render(w, r, "create_post.html", map[string]interface{}{
		"current_user": current,
	})
}

// Followers lists the users following the given user.
func (h *PageHandler) Followers(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	profileUser, err := h.users.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	listed, err := h.users.ResolveAll(r.Context(), profileUser.Followers)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, "followers.html", map[string]interface{}{
		"current_user": current,
		"profile_user": profileUser,
		"followers":    listed,
	})
}

// Following lists the users the given user follows.
func (h *PageHandler) Following(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	profileUser, err := h.users.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	listed, err := h.users.ResolveAll(r.Context(), profileUser.Following)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, "following.html", map[string]interface{}{
		"current_user":    current,
		"profile_user":    profileUser,
		"following_users": listed,
	})
}

// Search renders name-prefix search results for the query parameter.
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	query := r.URL.Query().Get("query")
	results, err := h.users.Search(r.Context(), query)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, "search.html", map[string]interface{}{
		"current_user": current,
		"query":        query,
		"results":      results,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, view string, data map[string]interface{}) {
	if err := h.renderer.Render(w, view, data); err != nil {
		h.logger.Error("failed to render view",
			zap.String("view", view),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsNotFound(err) {
		http.NotFound(w, r)
		return
	}
	h.logger.Error("page handler error",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError,
		string(apperrors.ErrorTypeInternal), "internal server error")
}
