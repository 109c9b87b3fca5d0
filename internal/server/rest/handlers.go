package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/dmitrijs2005/assistant/internal/logging"
	"github.com/dmitrijs2005/assistant/internal/server/services"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 32 << 20
)

type handlers struct {
	users   UserService
	chats   ChatService
	uploads UploadService
	logger  logging.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "healthy", Message: "Backend is running."})
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			writeError(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, common.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, common.ErrRegistrationFailed):
			writeError(w, http.StatusBadRequest, "Registration failed")
		default:
			h.logger.Error(r.Context(), "registering user", "error", err)
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	h.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, newUserView(user))
}

// token accepts the OAuth2 password form, urlencoded or multipart, as well
// as a JSON body.
func (h *handlers) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxJSONBody)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	tok, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) || errors.Is(err, common.ErrIncorrectPassword) {
			writeUnauthorized(w, "Incorrect username or password")
			return
		}
		h.logger.Error(r.Context(), "issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), tokenFromContext(r.Context())); err != nil {
		if errors.Is(err, common.ErrorInternal) {
			h.logger.Error(r.Context(), "logging out", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		writeUnauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (h *handlers) storeChat(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if _, err := h.chats.Store(r.Context(), user.ID, req.UserMessage, req.AIResponse); err != nil {
		h.logger.Error(r.Context(), "Error storing chat", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error storing chat.")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Chat stored successfully."})
}

func (h *handlers) chatHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	turns, err := h.chats.History(r.Context(), user.ID)
	if err != nil {
		h.logger.Error(r.Context(), "Error fetching chat history", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching chat history.")
		return
	}

	writeJSON(w, http.StatusOK, newChatTurnViews(turns))
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	up, err := h.uploads.Upload(r.Context(), user.ID, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyFileName) {
			writeError(w, http.StatusBadRequest, "File name is required.")
			return
		}
		h.logger.Error(r.Context(), "Error uploading file", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error uploading file.")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{FileName: up.FileName, Key: up.StorageKey, Message: "File uploaded successfully"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
