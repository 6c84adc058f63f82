package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventbr/src-server/model"
	"eventbr/src-server/utils"

	"github.com/google/uuid"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	type AuthReqBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// register; does NOT log the new account in
	muxer.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var reqBody AuthReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.Username == "" || reqBody.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Preencha usuário e senha."))
			return
		}

		userModel, err := model.Register(r.Context(), as.BunDB, reqBody.Username, reqBody.Password)
		switch {
		case errors.Is(err, model.ErrDuplicateUsername):
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Nome de usuário já existe."))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't register user"))
			slog.Error("can't register user", "error", err)
			return
		}

		slog.Info("user registered", "user_id", userModel.ID, "username", userModel.Username)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("Usuário registrado com sucesso."))
	})

	// login: check credentials, mint a session secret, hand it back as an
	// HttpOnly cookie
	muxer.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var reqBody AuthReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		userID, err := model.Authenticate(r.Context(), as.BunDB, reqBody.Username, reqBody.Password)
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			// same answer for unknown user and wrong password
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Usuário ou senha inválidos."))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check credentials"))
			slog.Error("can't check credentials", "error", err)
			return
		}

		newSessionSecret := uuid.NewString()
		if _, err := as.BunDB.
			NewInsert().
			Model(&model.Session{
				Secret:           newSessionSecret,
				UserID:           userID,
				Username:         reqBody.Username,
				CreatedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert session model to DB"))
			slog.Error("can't insert session model to DB", "error", err)
			return
		}

		switch as.Config.GetDev() {
		case true:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(fmt.Sprintf(`{"sessionSecret": "%s"}`, newSessionSecret)))
		case false:
			w.Header().Set("Set-Cookie", SessionSecretCookieName+"="+newSessionSecret+"; Path=/; HttpOnly; SameSite=Lax")
			w.WriteHeader(http.StatusOK)
		}
	})

	// logout from any state
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		if sessionCookie, err := r.Cookie(SessionSecretCookieName); err == nil {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionCookie.Value).
				Exec(r.Context()); err != nil {
				slog.Warn("can't delete session model in DB", "error", err)
			}
		}

		w.Header().Set("Set-Cookie", SessionSecretCookieName+"=; Path=/; HttpOnly; SameSite=Lax")
		w.WriteHeader(http.StatusOK)
	})
}
