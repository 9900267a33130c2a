package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"contactbook/internal/user"
	"contactbook/pkg/httpjson"
)

type JSONHandler struct {
	contacts Repository
}

func NewJSONHandler(contacts Repository) *JSONHandler {
	return &JSONHandler{contacts: contacts}
}

// Register mounts the contact routes on r. The router is expected to be
// wrapped with the access-token middleware. Literal paths go first so
// /search and /birthdays are not swallowed by the {id} pattern.
func (h *JSONHandler) Register(r *mux.Router) {
	r.HandleFunc("", h.List).Methods(http.MethodGet)
	r.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/birthdays", h.UpcomingBirthdays).Methods(http.MethodGet)
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.GetByID).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.Update).Methods(http.MethodPatch)
	r.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *JSONHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit < 1 || limit > 500 {
		httpjson.Error(w, http.StatusBadRequest, "Limit must be an integer between 1 and 500")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		httpjson.Error(w, http.StatusBadRequest, "Offset must be a non-negative integer")
		return
	}

	contacts, err := h.contacts.List(r.Context(), u.ID, limit, offset)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Failed to list contacts")
		return
	}
	httpjson.Write(w, http.StatusOK, contacts)
}

func (h *JSONHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	c, err := h.contacts.GetByID(r.Context(), u.ID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Contact not found")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to get contact")
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *JSONHandler) Search(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	name := r.URL.Query().Get("name")
	surname := r.URL.Query().Get("surname")
	email := r.URL.Query().Get("email")
	if name == "" && surname == "" && email == "" {
		httpjson.Error(w, http.StatusBadRequest, "At least one search parameter must be provided")
		return
	}

	c, err := h.contacts.Search(r.Context(), u.ID, name, surname, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Contact not found")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to search contacts")
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *JSONHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req struct {
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Birthday string `json:"birthday"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Surname == "" || req.Email == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name, surname and email are required")
		return
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Birthday must be formatted as YYYY-MM-DD")
		return
	}

	c := &Contact{
		UserID:   u.ID,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		Birthday: birthday,
	}
	if err := h.contacts.Create(r.Context(), c); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create contact")
		return
	}
	httpjson.Write(w, http.StatusCreated, c)
}

func (h *JSONHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	var req struct {
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.contacts.Update(r.Context(), u.ID, id, UpdateParams{Email: req.Email, Phone: req.Phone})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Contact not found")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *JSONHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	if _, err := h.contacts.Delete(r.Context(), u.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Contact not found")
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JSONHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), u.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Failed to get upcoming birthdays")
		return
	}
	httpjson.Write(w, http.StatusOK, contacts)
}

// queryInt parses an optional integer query parameter. A missing value
// yields the fallback, a value that is not an integer yields an error.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
