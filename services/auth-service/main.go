package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	"civicsync/pkg/database"
	"civicsync/pkg/middleware"
	"civicsync/pkg/response"
	"civicsync/services/auth-service/models"
	"civicsync/services/auth-service/utils"

	"gorm.io/gorm"
)

var db *gorm.DB

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 100 {
		return false, "Password too long"
	}
	return true, ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		getenv("POSTGRES_HOST", "localhost"),
		getenv("POSTGRES_USER", "admin"),
		getenv("POSTGRES_PASSWORD", "password"),
		getenv("POSTGRES_DB", "civicsync_auth"),
		getenv("POSTGRES_PORT", "5432"),
	)

	var err error
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("[ERROR] Migration failed: %v", err)
	}
	log.Println("[OK] Migration success")

	middleware.RegisterMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signup", signupHandler)
	mux.HandleFunc("/api/auth/login", loginHandler)
	mux.HandleFunc("/api/auth/me", middleware.AuthMiddleware(meHandler))
	mux.HandleFunc("/api/auth/users",
		middleware.AuthMiddleware(middleware.RequireRole("admin")(listUsersHandler)))
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", middleware.GetMetricsHandler())

	handler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(mux),
		),
	)

	port := getenv("AUTH_PORT", "8081")
	log.Printf("[INFO] Auth Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func signupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		FirstName string `json:"f_name"`
		LastName  string `json:"l_name"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if input.FirstName == "" || input.LastName == "" || input.Email == "" ||
		input.Username == "" || input.Password == "" {
		response.Error(w, http.StatusBadRequest, "All fields are required", "")
		return
	}
	if !isValidEmail(input.Email) {
		response.Error(w, http.StatusBadRequest, "Invalid email format", "")
		return
	}
	if ok, msg := isValidPassword(input.Password); !ok {
		response.Error(w, http.StatusBadRequest, msg, "")
		return
	}

	var existing models.User
	err := db.Where("email = ? OR username = ?", input.Email, input.Username).First(&existing).Error
	if err == nil {
		response.Error(w, http.StatusConflict, "User with this email or username already exists", "")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		response.Internal(w, "Database error", err)
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		response.Internal(w, "Failed to hash password", err)
		return
	}

	user := models.User{
		Email:    input.Email,
		Username: input.Username,
		Password: hashed,
		Name:     strings.TrimSpace(input.FirstName + " " + input.LastName),
	}
	if err := db.Create(&user).Error; err != nil {
		response.Internal(w, "Database insert error", err)
		return
	}

	response.Success(w, http.StatusCreated, "Signup successful! You can now log in.", nil)
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}
	if input.Email == "" || input.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and password are required", "")
		return
	}

	var user models.User
	err := db.Where("email = ?", input.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials", "")
		} else {
			response.Internal(w, "Database error", err)
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		response.Error(w, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		response.Internal(w, "Failed to issue token", err)
		return
	}

	response.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	claims, ok := r.Context().Value(middleware.UserContextKey).(*middleware.UserClaims)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	response.Success(w, http.StatusOK, "Authenticated", claims)
}

// listUsersHandler backs the admin console's settings view.
func listUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		response.Internal(w, "Database error", err)
		return
	}

	response.Success(w, http.StatusOK, "Users fetched successfully", users)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "auth-service",
	})
}
