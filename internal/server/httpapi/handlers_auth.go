package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupInput
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	user, err := h.users.Signup(r.Context(), req)
	if err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	if _, err := h.sessions.Issue(w, user.ID); err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	if _, err := h.sessions.Issue(w, user.ID); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Revoke(w)
	writeJSON(w, http.StatusOK, apiError{Message: msgLoggedOut})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	current, _ := userFromContext(r.Context())

	var req updateProfileRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "update_profile", err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), current.ID, req.ProfilePic)
	if err != nil {
		h.fail(w, r, "update_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	current, _ := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, current)
}
