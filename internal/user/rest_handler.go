package user

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"contactbook/pkg/httpjson"
)

type JSONHandler struct {
	users Repository
}

func NewJSONHandler(users Repository) *JSONHandler {
	return &JSONHandler{users: users}
}

// Register mounts the profile routes on r, behind the access-token
// middleware.
func (h *JSONHandler) Register(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	r.HandleFunc("/avatar", h.UpdateAvatar).Methods(http.MethodPatch)
}

func (h *JSONHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// UpdateAvatar stores a new avatar URL for the caller. Uploading the
// image itself is handled elsewhere; this endpoint only records the URL.
func (h *JSONHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AvatarURL == "" {
		httpjson.Error(w, http.StatusBadRequest, "avatar_url is required")
		return
	}

	updated, err := h.users.UpdateAvatar(r.Context(), u.Email, req.AvatarURL)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Failed to update avatar")
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}
