package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vick25/ceedd-stream-backend/internal/db"
	"github.com/vick25/ceedd-stream-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTTL  = 1 * time.Hour
	refreshTTL = 24 * time.Hour
)

// issuePair mints a new opaque access/refresh token pair for a user and
// drops any fully expired pairs they still hold.
func issuePair(userID string) (Token, error) {
	now := time.Now()
	token := Token{
		AccessToken:      uuid.NewString(),
		RefreshToken:     uuid.NewString(),
		UserID:           userID,
		AccessExpiresAt:  now.Add(accessTTL),
		RefreshExpiresAt: now.Add(refreshTTL),
	}

	db.DB.Where("user_id = ? AND refresh_expires_at < ?", userID, now).Delete(&Token{})

	if err := db.DB.Create(&token).Error; err != nil {
		return Token{}, err
	}
	return token, nil
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if user.Username == "" || user.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Check if username is taken
	var existing User
	err = db.DB.First(&existing, "username = ?", user.Username).Error
	if err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	user.HashedPassword = string(hashed)
	user.UserID = uuid.NewString()
	user.Password = ""

	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

// TokenHandler trades credentials for an access/refresh pair:
// POST /auth/token {"username": ..., "password": ...}
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	var creds User

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	var user User
	if err := db.DB.First(&user, "username = ?", creds.Username).Error; err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password)); err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	token, err := issuePair(user.UserID)
	if err != nil {
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(token)
}

// RefreshHandler rotates a pair: POST /auth/token/refresh {"refresh": ...}
// The presented pair is revoked and a fresh one returned.
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Refresh string `json:"refresh"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Refresh == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	var existing Token
	if err := db.DB.First(&existing, "refresh_token = ?", input.Refresh).Error; err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	if existing.RefreshExpiresAt.Before(time.Now()) {
		db.DB.Delete(&existing)
		http.Error(w, "Refresh token expired", http.StatusUnauthorized)
		return
	}

	token, err := issuePair(existing.UserID)
	if err != nil {
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}
	db.DB.Delete(&existing)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(token)
}

// MeHandler returns the authenticated user's profile.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
