package handlers

import (
	"net/http"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/mw"
	"github.com/ldrouet/marque/internal/logger"
)

const minPasswordLen = 8

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Register creates an account and opens a session for it.
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid body")
			return
		}

		email := domain.NormalizeEmail(req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			writeError(w, d, domain.NewValidationError("email", "invalid email"))
			return
		}
		if len(req.Password) < minPasswordLen {
			writeError(w, d, domain.NewValidationError("password", "too short"))
			return
		}

		if _, err := d.Users.UserByEmail(r.Context(), email); err == nil {
			writeError(w, d, domain.NewValidationError("email", "already registered"))
			return
		} else if err != domain.ErrNotFound {
			writeError(w, d, &domain.PersistenceError{Op: "lookup user", Err: err})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, d, err)
			return
		}

		user := domain.NewUser(email, string(hash))
		if err := d.Users.CreateUser(r.Context(), user); err != nil {
			writeError(w, d, &domain.PersistenceError{Op: "create user", Err: err})
			return
		}

		token, err := d.Sessions.Create(r.Context(), user.ID)
		if err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Info("user registered", logger.String("user_id", user.ID))
		setSessionCookie(w, d, token)
		writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
	}
}

// Login verifies credentials and opens a session.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid body")
			return
		}

		user, err := d.Users.UserByEmail(r.Context(), domain.NormalizeEmail(req.Email))
		if err != nil {
			if err == domain.ErrNotFound {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
				return
			}
			writeError(w, d, &domain.PersistenceError{Op: "lookup user", Err: err})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}

		token, err := d.Sessions.Create(r.Context(), user.ID)
		if err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Info("user logged in", logger.String("user_id", user.ID))
		setSessionCookie(w, d, token)
		writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: *user})
	}
}

// Logout destroys the current session. Safe to call without one.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerOrCookie(r); token != "" {
			if err := d.Sessions.Destroy(r.Context(), token); err != nil {
				d.Logger.Warn("failed to destroy session", logger.Error(err))
			}
		}
		clearSessionCookie(w, d)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me returns the authenticated user's account.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := d.Users.UserByID(r.Context(), mw.UserID(r.Context()))
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func setSessionCookie(w http.ResponseWriter, d deps.Deps, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, d deps.Deps) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func bearerOrCookie(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
		return h[7:]
	}
	if c, err := r.Cookie(mw.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
