package api

import (
	"net/http"
	"net/mail"
	"strings"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/web"
)

const (
	usersPageSize     = 20
	minPasswordLength = 8
)

type usersView struct {
	Search string
	Users  []models.User
	Err    string
	Pager  Pager
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	users, err := h.svc.ListUsers(r.Context(), pageParam(r), usersPageSize, search)
	if h.sessionExpired(w, r, err) {
		return
	}

	h.render(w, r, http.StatusOK, "users.html", "Users", "users", usersView{
		Search: search,
		Users:  users,
		Err:    errText(r, "users", err),
		Pager:  newPager(r, usersPageSize, len(users)),
	})
}

type userView struct {
	User *models.User
	Err  string
}

func (h *Handler) UserDetail(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		if isNotFound(err) {
			h.errorPage(w, r, http.StatusNotFound, "users", "User not found.", "/users")
			return
		}
	}

	h.render(w, r, http.StatusOK, "user_detail.html", "User", "users", userView{
		User: user,
		Err:  errText(r, "user", err),
	})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	in := models.UserCreate{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		FullName:    strings.TrimSpace(r.PostFormValue("full_name")),
		IsSuperuser: r.PostFormValue("is_superuser") == "true",
	}

	if msg := validateUser(in); msg != "" {
		setFlash(w, web.FlashError, msg)
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	_, err := h.svc.CreateUser(r.Context(), in)
	h.afterMutation(w, r, "/users", "User "+in.Username+" created.", err)
}

func validateUser(in models.UserCreate) string {
	switch {
	case in.Username == "":
		return "Username is required."
	case in.Email == "":
		return "Email is required."
	case len(in.Password) < minPasswordLength:
		return "Password must be at least 8 characters."
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return "Email address is not valid."
	}
	return ""
}

// UpdateUser applies the role selector of the list or the detail page's edit
// form. Blank fields are left unchanged.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd models.UserUpdate
	switch r.PostFormValue("role") {
	case "admin":
		v := true
		upd.IsSuperuser = &v
	case "regular":
		v := false
		upd.IsSuperuser = &v
	}
	if v := strings.TrimSpace(r.PostFormValue("email")); v != "" {
		upd.Email = &v
	}
	if v := strings.TrimSpace(r.PostFormValue("full_name")); v != "" {
		upd.FullName = &v
	}

	if upd.IsSuperuser == nil && upd.Email == nil && upd.FullName == nil {
		setFlash(w, web.FlashError, "Nothing to update.")
		http.Redirect(w, r, backTo(r, "/users"), http.StatusSeeOther)
		return
	}

	_, err := h.svc.UpdateUser(r.Context(), r.PathValue("id"), upd)
	h.afterMutation(w, r, backTo(r, "/users"), "User updated.", err)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.DeleteUser(r.Context(), r.PathValue("id"))
	target := backTo(r, "/users")
	if strings.HasPrefix(target, "/users/") {
		target = "/users"
	}
	h.afterMutation(w, r, target, "User deleted.", err)
}

func (h *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.ActivateUser(r.Context(), r.PathValue("id"))
	h.afterMutation(w, r, backTo(r, "/users"), "User activated.", err)
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.DeactivateUser(r.Context(), r.PathValue("id"))
	h.afterMutation(w, r, backTo(r, "/users"), "User deactivated.", err)
}
