package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/garnizeh/inspections/internal/repository/sqlite"
	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	engineerRepo  repository.EngineerRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(er repository.EngineerRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{engineerRepo: er, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

type profileResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token      string `json:"token"`
	EngineerID int64  `json:"engineerId"`
}

// Signup registers an engineer. This is the only place accounts are created.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	existing, err := h.engineerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("lookup engineer", slog.Any("err", err))
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	engineer := models.Engineer{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	engineerID, err := h.engineerRepo.CreateEngineer(ctx, &engineer)
	if sqlite.IsConstraint(err) {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error("create engineer", slog.Any("err", err))
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	h.issueToken(w, engineerID, req.Email)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	engineer, err := h.engineerRepo.GetByEmail(r.Context(), req.Email)
	if err != nil || engineer == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(engineer.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	h.issueToken(w, engineer.ID, engineer.Email)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

// Profile returns the engineer the token belongs to.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	engineer, ok := h.currentEngineer(w, r)
	if !ok {
		return
	}

	writeJSON(w, toProfile(engineer), http.StatusOK)
}

// UpdateProfile changes the name and/or password of the token's engineer.
// Stored inspections keep referring to the same engineer id.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == nil && req.Password == nil {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	engineer, ok := h.currentEngineer(w, r)
	if !ok {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			http.Error(w, "Name cannot be empty", http.StatusBadRequest)
			return
		}
		engineer.Name = name
	}
	if req.Password != nil {
		if *req.Password == "" {
			http.Error(w, "Password cannot be empty", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Error hashing password", http.StatusInternalServerError)
			return
		}
		engineer.PasswordHash = string(hash)
	}

	if err := h.engineerRepo.UpdateEngineer(r.Context(), engineer); err != nil {
		logger.Error("update engineer", slog.Int64("engineer_id", engineer.ID), slog.Any("err", err))
		http.Error(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toProfile(engineer), http.StatusOK)
}

// currentEngineer loads the engineer named by the token, answering the
// request itself when that fails.
func (h *AuthHandler) currentEngineer(w http.ResponseWriter, r *http.Request) (*models.Engineer, bool) {
	id, ok := EngineerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Token has no engineer", http.StatusUnauthorized)
		return nil, false
	}

	engineer, err := h.engineerRepo.GetByID(r.Context(), id)
	if err != nil {
		logger.Error("get engineer", slog.Int64("engineer_id", id), slog.Any("err", err))
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return nil, false
	}
	if engineer == nil {
		http.Error(w, "Engineer not found", http.StatusNotFound)
		return nil, false
	}

	return engineer, true
}

func toProfile(e *models.Engineer) profileResponse {
	return profileResponse{ID: e.ID, Name: e.Name, Email: e.Email, Role: e.Role}
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, engineerID int64, email string) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"engineer_id": engineerID,
		"email":       email,
		"exp":         time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, EngineerID: engineerID}, http.StatusOK)
}
