package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gorilla/mux"
	passwordvalidator "github.com/wagslane/go-password-validator"

	"contactbook/internal/user"
	"contactbook/pkg/httpjson"
)

const PasswordMinEntropyBits = 30

// ConfirmationNotifier delivers a confirmation link out of band.
type ConfirmationNotifier interface {
	SendConfirmationEmail(to, username, link string) error
}

type JSONHandler struct {
	service       *Service
	confirmations *Confirmations
	notifier      ConfirmationNotifier
	baseURL       string
}

func NewJSONHandler(service *Service, confirmations *Confirmations, notifier ConfirmationNotifier, baseURL string) *JSONHandler {
	return &JSONHandler{
		service:       service,
		confirmations: confirmations,
		notifier:      notifier,
		baseURL:       baseURL,
	}
}

// Register mounts the auth routes on r.
func (h *JSONHandler) Register(r *mux.Router) {
	r.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/refresh_token", h.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/confirmed_email/{token}", h.ConfirmEmail).Methods(http.MethodGet)
	r.HandleFunc("/request_email", h.RequestEmail).Methods(http.MethodPost)
}

func (h *JSONHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Username == "" || !validEmail(req.Email) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid username or email")
		return
	}
	if err := passwordvalidator.Validate(req.Password, PasswordMinEntropyBits); err != nil {
		httpjson.Error(w, http.StatusBadRequest, fmt.Sprintf("Password is not strong enough: %v", err))
		return
	}

	u, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			httpjson.Error(w, http.StatusConflict, "Account already exists")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.sendConfirmation(u.Email, u.Username)

	httpjson.Write(w, http.StatusCreated, u)
}

func (h *JSONHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailNotConfirmed):
			httpjson.Error(w, http.StatusUnauthorized, "Email not confirmed")
		case errors.Is(err, ErrInvalidCredentials):
			httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			httpjson.Error(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	httpjson.Write(w, http.StatusOK, pair)
}

func (h *JSONHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	pair, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	httpjson.Write(w, http.StatusOK, pair)
}

func (h *JSONHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.confirmations.Confirm(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidConfirmationToken) {
			httpjson.Error(w, http.StatusBadRequest, "Verification error")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Verification error")
		return
	}

	if result == AlreadyConfirmed {
		httpjson.Write(w, http.StatusOK, map[string]string{"message": "Your email is already confirmed"})
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Email confirmed"})
}

func (h *JSONHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.confirmations.RequestToken(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same response as the happy path, so the endpoint cannot be
			// used to probe which emails are registered.
			httpjson.Write(w, http.StatusOK, map[string]string{"message": "Check your email for confirmation."})
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to request confirmation")
		return
	}
	if token == "" {
		httpjson.Write(w, http.StatusOK, map[string]string{"message": "Your email is already confirmed"})
		return
	}

	u, err := h.service.users.GetByEmail(r.Context(), req.Email)
	if err == nil {
		h.notifyWithToken(u.Email, u.Username, token)
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Check your email for confirmation."})
}

// Logout clears the caller's stored refresh token. Mounted behind the
// access-token middleware.
func (h *JSONHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	if err := h.service.Logout(r.Context(), u.Email); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *JSONHandler) sendConfirmation(email, username string) {
	token, err := h.confirmations.IssueToken(email)
	if err != nil {
		log.Printf("Failed to issue confirmation token for %s: %v", email, err)
		return
	}
	h.notifyWithToken(email, username, token)
}

func (h *JSONHandler) notifyWithToken(email, username, token string) {
	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", h.baseURL, token)
	go func() {
		if err := h.notifier.SendConfirmationEmail(email, username, link); err != nil {
			if err = h.notifier.SendConfirmationEmail(email, username, link); err != nil {
				log.Printf("Failed to send confirmation email to %s: %v", email, err)
			}
		}
	}()
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
