package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	current, _ := userFromContext(r.Context())

	list, err := h.users.ListForSidebar(r.Context(), current.ID)
	if err != nil {
		h.fail(w, r, "list_users", err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	current, _ := userFromContext(r.Context())

	list, err := h.messages.History(r.Context(), current.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "history", err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	current, _ := userFromContext(r.Context())

	var req services.SendInput
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "send_message", err)
		return
	}

	msg, err := h.messages.Send(r.Context(), current.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, "send_message", err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
