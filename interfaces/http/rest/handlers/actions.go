package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/application/services"
	"snapgram-backend/domain/social"
	"snapgram-backend/infrastructure/config"
	"snapgram-backend/infrastructure/storage"
	"snapgram-backend/pkg/auth"
	"snapgram-backend/pkg/common"
	apperrors "snapgram-backend/pkg/errors"
	"snapgram-backend/pkg/utils"
)

// maxUploadSize bounds multipart form parsing for profile and post images.
const maxUploadSize = 10 << 20

// ActionHandler serves the state-changing endpoints behind the session gate.
type ActionHandler struct {
	verifier *auth.Verifier
	users    *services.UserDirectory
	graph    *services.SocialGraph
	posts    *services.Posts
	blobs    ports.BlobStore
	authCfg  config.AuthConfig
	logger   *zap.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(
	verifier *auth.Verifier,
	users *services.UserDirectory,
	graph *services.SocialGraph,
	posts *services.Posts,
	blobs ports.BlobStore,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) *ActionHandler {
	return &ActionHandler{
		verifier: verifier,
		users:    users,
		graph:    graph,
		posts:    posts,
		blobs:    blobs,
		authCfg:  authCfg,
		logger:   logger,
	}
}

type initSessionRequest struct {
	IDToken string `json:"idToken"`
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// InitSession verifies an identity token and establishes the session cookie.
// The token comes from the Authorization header or the JSON body.
func (h *ActionHandler) InitSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		var req initSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = strings.TrimSpace(req.IDToken)
		}
	}
	if token == "" {
		common.RespondError(w, http.StatusUnauthorized,
			string(apperrors.ErrorTypeUnauthenticated), "missing identity token")
		return
	}

	claims, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		h.logger.Warn("session init rejected", zap.Error(err))
		common.RespondError(w, http.StatusUnauthorized,
			string(apperrors.ErrorTypeUnauthenticated), "invalid identity token")
		return
	}

	user, err := h.users.GetOrCreate(r.Context(), claims)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.authCfg.CookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	common.RespondJSON(w, http.StatusOK, sessionResponse{
		UserID: user.ID,
		Name:   user.Name,
	})
}

// Logout clears the session cookie and sends the client to the login page.
func (h *ActionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

type updateProfileForm struct {
	Name     string `validate:"required,max=100"`
	Username string `validate:"max=50"`
	Bio      string `validate:"max=500"`
	Website  string `validate:"max=200"`
	Phone    string `validate:"max=30"`
	Gender   string `validate:"max=30"`
}

// UpdateProfile applies the edit-profile form, uploading a new picture when given.
func (h *ActionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized,
			string(apperrors.ErrorTypeUnauthenticated), "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(apperrors.ErrorTypeValidation), "invalid form data")
		return
	}

	form := updateProfileForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Username: strings.TrimSpace(r.FormValue("username")),
		Bio:      r.FormValue("bio"),
		Website:  strings.TrimSpace(r.FormValue("website")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Gender:   strings.TrimSpace(r.FormValue("gender")),
	}
	if err := utils.ValidateStruct(form); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(apperrors.ErrorTypeValidation), err.Error())
		return
	}

	privateAccount := r.FormValue("private_account") != ""
	update := social.ProfileUpdate{
		Name:           form.Name,
		Username:       &form.Username,
		Bio:            &form.Bio,
		Website:        &form.Website,
		Phone:          &form.Phone,
		Gender:         &form.Gender,
		PrivateAccount: &privateAccount,
	}

	if file, header, err := r.FormFile("profile_picture"); err == nil {
		defer file.Close()
		objectPath := storage.UploadPath("profiles", current.ID, header.Filename, time.Now())
		url, err := h.blobs.Upload(r.Context(), objectPath, file, header.Size,
			header.Header.Get("Content-Type"))
		if err != nil {
			h.logger.Error("profile picture upload failed", zap.Error(err))
			common.RespondAppError(w, err)
			return
		}
		update.ProfilePicture = &url
	}

	if err := h.users.UpdateProfile(r.Context(), current.ID, update); err != nil {
		common.RespondAppError(w, err)
		return
	}

	http.Redirect(w, r, "/profile/"+current.ID, http.StatusFound)
}

// CreatePost uploads the image and records a new post.
func (h *ActionHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized,
			string(apperrors.ErrorTypeUnauthenticated), "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(apperrors.ErrorTypeValidation), "invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(apperrors.ErrorTypeValidation), "an image is required")
		return
	}
	defer file.Close()

	objectPath := storage.UploadPath("posts", current.ID, header.Filename, time.Now())
	imageURL, err := h.blobs.Upload(r.Context(), objectPath, file, header.Size,
		header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("post image upload failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	caption := strings.TrimSpace(r.FormValue("caption"))
	if _, err := h.posts.Create(r.Context(), current, caption, imageURL); err != nil {
		common.RespondAppError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Follow adds the signed-in user as a follower of the target user.
func (h *ActionHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.mutateGraph(w, r, h.graph.Follow)
}

// Unfollow removes the follow edge from the signed-in user to the target.
func (h *ActionHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.mutateGraph(w, r, h.graph.Unfollow)
}

func (h *ActionHandler) mutateGraph(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, targetID string) error) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized,
			string(apperrors.ErrorTypeUnauthenticated), "authentication required")
		return
	}

	targetID := chi.URLParam(r, "userID")
	if err := op(r.Context(), current.ID, targetID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	redirect := r.FormValue("redirect_url")
	if redirect == "" || !strings.HasPrefix(redirect, "/") {
		redirect = "/profile/" + targetID
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

// AddComment appends a comment to the post and returns to the referring page.
func (h *ActionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized,
			string(apperrors.ErrorTypeUnauthenticated), "authentication required")
		return
	}

	postID := chi.URLParam(r, "postID")
	text := r.FormValue("comment_text")
	if err := h.posts.AddComment(r.Context(), postID, current, text); err != nil {
		common.RespondAppError(w, err)
		return
	}

	redirect := r.Referer()
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
