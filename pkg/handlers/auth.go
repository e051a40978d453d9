package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type InviteRequest struct {
	Name       string   `json:"name" binding:"required,min=2,max=100"`
	Email      string   `json:"email" binding:"required,email"`
	Role       string   `json:"role" binding:"omitempty,oneof=editor client"`
	WebsiteURL *string  `json:"website_url"`
	Location   *string  `json:"location"`
	Keywords   []string `json:"keywords"`
}

type SetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RegisterUser self-registers an active client-role user.
func (a *API) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("RegisterUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	existingUser, err := a.store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("RegisterUser: Error finding user by email '%s': %v", req.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error finding user by email", nil)
		return
	}
	if existingUser != nil {
		log.Debugf("RegisterUser: User with email '%s' already exists.", req.Email)
		utils.ResponseWithError(c, http.StatusConflict, "User with email already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("RegisterUser: Error hashing password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error hashing password", nil)
		return
	}

	user := &db.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         db.RoleClient,
		Active:       true,
	}

	createdUser, err := a.store.CreateUser(user)
	if err != nil {
		log.Errorf("RegisterUser: Error creating user: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error creating user", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusCreated, "User created successfully", createdUser)
}

// LoginUser validates credentials and issues a bearer token.
func (a *API) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("LoginUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	user, err := a.store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("LoginUser: Error finding user by email: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Login failed", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Debugf("LoginUser: Invalid password for user '%s'.", req.Email)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !user.Active {
		log.Debugf("LoginUser: Account '%s' is not activated yet.", req.Email)
		utils.ResponseWithError(c, http.StatusForbidden, "Account is not activated. Check your invite email to set a password.", nil)
		return
	}

	token, err := services.GenerateToken([]byte(a.cfg.JwtSecret), user.ID, user.Role)
	if err != nil {
		log.Errorf("LoginUser: Failed to generate JWT token for user %s: %v", user.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to generate authentication token", nil)
		return
	}

	log.Infof("User %s logged in successfully.", user.Email)
	utils.ResponseWithSuccess(c, http.StatusOK, "Login successful", gin.H{"token": token, "user": user})
}

// InviteUser creates an inactive user and emails them a setup link. Email
// delivery failure never fails user creation; the raw link comes back in the
// response so an operator can deliver it manually.
func (a *API) InviteUser(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("InviteUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)
	if req.Role == "" {
		req.Role = db.RoleClient
	}

	existingUser, err := a.store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("InviteUser: Error finding user by email '%s': %v", req.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error finding user by email", nil)
		return
	}
	if existingUser != nil {
		utils.ResponseWithError(c, http.StatusConflict, "User with email already exists", nil)
		return
	}

	// The invited account has no usable password until setup; store the hash
	// of an unguessable placeholder.
	placeholder, _, _, err := services.NewResetToken()
	if err != nil {
		log.Errorf("InviteUser: Failed to generate placeholder secret: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create invite", nil)
		return
	}
	placeholderHash, err := bcrypt.GenerateFromPassword([]byte(placeholder), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("InviteUser: Error hashing placeholder password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create invite", nil)
		return
	}

	user := &db.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(placeholderHash),
		Role:         req.Role,
		Active:       false,
		WebsiteURL:   req.WebsiteURL,
		Location:     req.Location,
		Keywords:     pq.StringArray(req.Keywords),
	}

	createdUser, err := a.store.CreateUser(user)
	if err != nil {
		log.Errorf("InviteUser: Error creating user: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error creating user", nil)
		return
	}

	rawToken, tokenHash, expires, err := services.NewResetToken()
	if err != nil {
		log.Errorf("InviteUser: Failed to generate setup token: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create setup token", nil)
		return
	}
	if err := a.store.SetUserResetToken(createdUser.ID, tokenHash, expires); err != nil {
		log.Errorf("InviteUser: Failed to store setup token: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create setup token", nil)
		return
	}

	setupLink := fmt.Sprintf("%s/setup-password?token=%s", a.cfg.AppURL, rawToken)

	emailSent := false
	if a.mail.Enabled() {
		if err := a.mail.SendSetupLink(createdUser.Email, createdUser.Name, setupLink); err != nil {
			log.Warnf("InviteUser: Setup email to '%s' failed: %v", createdUser.Email, err)
		} else {
			emailSent = true
		}
	} else {
		log.Warn("InviteUser: No SMTP transport configured; returning setup link in response.")
	}

	resp := gin.H{"user": createdUser, "email_sent": emailSent}
	if !emailSent {
		resp["setup_link"] = setupLink
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "User invited successfully", resp)
}

// setPasswordByToken is the shared core of setup-password and reset-password.
func (a *API) setPasswordByToken(c *gin.Context, activate bool) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("setPasswordByToken: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := a.store.FindUserByResetTokenHash(services.HashToken(req.Token))
	if err != nil {
		log.Errorf("setPasswordByToken: Error finding user by token: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to verify token", nil)
		return
	}
	if user == nil || services.TokenExpired(user.ResetTokenExpires) {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid or expired token", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("setPasswordByToken: Error hashing password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error hashing password", nil)
		return
	}

	if err := a.store.SetUserPassword(user.ID, string(hashedPassword), activate); err != nil {
		log.Errorf("setPasswordByToken: Failed to store password for user '%s': %v", user.ID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update password", nil)
		return
	}

	log.Infof("Password set for user '%s' (activate=%v).", user.ID.String(), activate)
	utils.ResponseWithSuccess(c, http.StatusOK, "Password updated successfully", nil)
}

// SetupPassword activates an invited account with its first password.
func (a *API) SetupPassword(c *gin.Context) {
	a.setPasswordByToken(c, true)
}

// ResetPassword sets a new password from a reset link.
func (a *API) ResetPassword(c *gin.Context) {
	a.setPasswordByToken(c, false)
}

// ForgotPassword issues a reset token for a known email. Unknown emails get a
// 404; that leaks account existence, but matches the shipped front end's
// expectations for this internal tool.
func (a *API) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("ForgotPassword: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	user, err := a.store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("ForgotPassword: Error finding user by email: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to process request", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "No account with that email", nil)
		return
	}

	rawToken, tokenHash, expires, err := services.NewResetToken()
	if err != nil {
		log.Errorf("ForgotPassword: Failed to generate reset token: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create reset token", nil)
		return
	}
	if err := a.store.SetUserResetToken(user.ID, tokenHash, expires); err != nil {
		log.Errorf("ForgotPassword: Failed to store reset token: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create reset token", nil)
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", a.cfg.AppURL, rawToken)

	emailSent := false
	if a.mail.Enabled() {
		if err := a.mail.SendResetLink(user.Email, user.Name, resetLink); err != nil {
			log.Warnf("ForgotPassword: Reset email to '%s' failed: %v", user.Email, err)
		} else {
			emailSent = true
		}
	} else {
		log.Warnf("ForgotPassword: No SMTP transport configured; reset email to '%s' not sent.", user.Email)
	}

	// The reset link is a live credential and this route is unauthenticated,
	// so the link itself never goes into the response. The invite flow may
	// return its setup link because that route is editor-only.
	utils.ResponseWithSuccess(c, http.StatusOK, "Password reset issued", gin.H{"email_sent": emailSent})
}

// Me returns the authenticated user's profile.
func (a *API) Me(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	user, err := a.store.FindUserByID(claims.UserID)
	if err != nil {
		log.Errorf("Me: Error finding user '%s': %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load profile", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Profile loaded", user)
}
