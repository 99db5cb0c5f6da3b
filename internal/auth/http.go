package auth

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type Handler struct {
	repo     *Repo
	sessions *SessionStore
	cookie   CookieOptions
}

func NewHandler(repo *Repo, sessions *SessionStore, cookie CookieOptions) *Handler {
	return &Handler{repo: repo, sessions: sessions, cookie: cookie}
}

// Register attaches the user routes. Credential endpoints sit behind the
// per-IP rate limiter.
func (h *Handler) Register(rg *gin.RouterGroup) {
	limited := RateLimit(1, 10)

	rg.GET("/status", h.status)
	rg.POST("/register", limited, h.register)
	rg.POST("/login", limited, h.login)
	rg.POST("/logout", h.logout)
}

func (h *Handler) status(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loggedIn": true, "user": user})
}

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ValidateCredentials enforces the registration rules: username 3-20
// characters, password at least 6.
func ValidateCredentials(username, password string) string {
	if username == "" || password == "" {
		return "username and password are required"
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 20 {
		return "username must be 3-20 characters"
	}
	if utf8.RuneCountInString(password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if msg := ValidateCredentials(req.Username, req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "registration failed"})
		return
	}

	var email *string
	if e := strings.TrimSpace(req.Email); e != "" {
		email = &e
	}

	user, err := h.repo.Create(c.Request.Context(), req.Username, string(hash), email)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "registration failed"})
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "registered", "user": user})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username and password are required"})
		return
	}

	// Same message for unknown user and wrong password so the response does
	// not reveal which usernames exist.
	user, err := h.repo.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid username or password"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid username or password"})
		return
	}

	_ = h.repo.TouchLastLogin(c.Request.Context(), user.ID)

	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged in", "user": user})
}

func (h *Handler) logout(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err == nil && token != "" {
		if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "logout failed"})
			return
		}
	}

	ClearSessionCookie(c, h.cookie)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (h *Handler) startSession(c *gin.Context, user *User) bool {
	token, err := h.sessions.Create(c.Request.Context(), user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "session creation failed"})
		return false
	}
	SetSessionCookie(c, h.cookie, token, int(h.sessions.TTL().Seconds()))
	return true
}
