package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      authenticator
}

func newAuthHandler(auth authenticator) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register creates an account and signs the caller in
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "message, token and user"
// @Failure 400 {object} ErrorResponse "missing fields, invalid email, short password or existing user"
// @Router /api/auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userID", result.User.ID.String()).Msg("user registered")
		h.responder.WriteStatus(w, http.StatusCreated, envelope{
			"message": "User registered successfully",
			"token":   result.Token,
			"user":    result.User,
		})
	}
}

// login exchanges credentials for a token
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "message, token and user"
// @Failure 400 {object} ErrorResponse "missing fields or invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Login successful",
			"token":   result.Token,
			"user":    result.User,
		})
	}
}
