package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/username/goldbooks/backend/src/database"
	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/model"
	"github.com/username/goldbooks/backend/src/security"
	"github.com/username/goldbooks/backend/src/utils"
)

type contextKey string

const userIDContextKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated operator's ID placed in the
// request context by AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

type UserHandler struct {
	authService        *security.AuthService
	refreshTokenExpiry time.Duration
}

func NewUserHandler(authService *security.AuthService, refreshTokenExpiry time.Duration) *UserHandler {
	return &UserHandler{authService: authService, refreshTokenExpiry: refreshTokenExpiry}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || len(creds.Password) < 8 {
		utils.SendJSONError(w, "username required and password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	hashed, err := h.authService.HashPassword(creds.Password)
	if err != nil {
		utils.SendJSONError(w, "error processing registration", http.StatusInternalServerError)
		return
	}

	user := model.User{Username: creds.Username, Password: hashed}
	if err := user.CreateUser(database.DB); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			utils.SendJSONError(w, "username already taken", http.StatusConflict)
			return
		}
		logger.L.Error("Error creating user", "username", creds.Username, "error", err)
		utils.SendJSONError(w, "error creating user", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User registered", "username", user.Username, "userID", user.ID)
	utils.SendJSON(w, map[string]interface{}{"id": user.ID, "username": user.Username}, http.StatusCreated)
}

func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByUsername(database.DB, creds.Username)
	if err != nil {
		utils.SendJSONError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}
	if err := h.authService.CompareHashAndPassword(user.Password, creds.Password); err != nil {
		utils.SendJSONError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.authService.GenerateToken(strconv.FormatInt(user.ID, 10))
	if err != nil {
		logger.L.Error("Error generating access token", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "error logging in", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		logger.L.Error("Error generating refresh token", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "error logging in", http.StatusInternalServerError)
		return
	}

	session := &model.Session{
		UserID:       user.ID,
		Token:        accessToken,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(h.refreshTokenExpiry),
	}
	if err := model.CreateSession(database.DB, session); err != nil {
		logger.L.Error("Error creating session", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "error logging in", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User logged in", "username", user.Username, "userID", user.ID)
	utils.SendJSON(w, map[string]string{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, http.StatusOK)
}

func (h *UserHandler) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
		return
	}
	if err := model.DeleteSessionByToken(database.DB, token); err != nil {
		logger.L.Error("Error deleting session on logout", "error", err)
		utils.SendJSONError(w, "error logging out", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]string{"message": "logged out"}, http.StatusOK)
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}
