package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name       string   `json:"name" binding:"required,min=2,max=100"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8,max=100"`
	Role       string   `json:"role" binding:"required,oneof=editor client"`
	WebsiteURL *string  `json:"website_url"`
	Location   *string  `json:"location"`
	Keywords   []string `json:"keywords"`
}

type UpdateUserRequest struct {
	Name       *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Role       *string  `json:"role" binding:"omitempty,oneof=editor client"`
	Active     *bool    `json:"active"`
	WebsiteURL *string  `json:"website_url"`
	Location   *string  `json:"location"`
	Keywords   []string `json:"keywords"`
}

type UpdateMeRequest struct {
	Name       *string  `json:"name" binding:"omitempty,min=2,max=100"`
	WebsiteURL *string  `json:"website_url"`
	Location   *string  `json:"location"`
	Keywords   []string `json:"keywords"`
}

// UpdateMe applies profile changes to the authenticated user. Role and active
// state are not self-serviceable.
func (a *API) UpdateMe(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := a.store.FindUserByID(claims.UserID)
	if err != nil {
		log.Errorf("UpdateMe: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load profile", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.WebsiteURL != nil {
		user.WebsiteURL = req.WebsiteURL
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Keywords != nil {
		user.Keywords = pq.StringArray(req.Keywords)
	}

	if err := a.store.UpdateUser(user); err != nil {
		log.Errorf("UpdateMe: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update profile", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Profile updated successfully", user)
}

// ListUsers returns every user. Editor-only.
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.store.FindAllUsers()
	if err != nil {
		log.Errorf("ListUsers: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to list users", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Users loaded", users)
}

// ListClients returns client-role users. Editor-only.
func (a *API) ListClients(c *gin.Context) {
	clients, err := a.store.FindUsersByRole(db.RoleClient)
	if err != nil {
		log.Errorf("ListClients: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to list clients", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "Clients loaded", clients)
}

// GetUser returns a single user by ID. Editor-only.
func (a *API) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	user, err := a.store.FindUserByID(id)
	if err != nil {
		log.Errorf("GetUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load user", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "User not found", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "User loaded", user)
}

// CreateUser provisions an active user directly, password included.
// Editor-only; the invite flow is the usual path for onboarding clients.
func (a *API) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	existing, err := a.store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("CreateUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to check email", nil)
		return
	}
	if existing != nil {
		utils.ResponseWithError(c, http.StatusConflict, "User with email already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("CreateUser: Error hashing password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error hashing password", nil)
		return
	}

	user := &db.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
		Active:       true,
		WebsiteURL:   req.WebsiteURL,
		Location:     req.Location,
		Keywords:     pq.StringArray(req.Keywords),
	}

	created, err := a.store.CreateUser(user)
	if err != nil {
		log.Errorf("CreateUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create user", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusCreated, "User created successfully", created)
}

// UpdateUser applies partial profile changes to a user. Editor-only.
func (a *API) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := a.store.FindUserByID(id)
	if err != nil {
		log.Errorf("UpdateUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load user", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			existing, err := a.store.FindUserByEmail(email)
			if err != nil {
				utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to check email", nil)
				return
			}
			if existing != nil {
				utils.ResponseWithError(c, http.StatusConflict, "User with email already exists", nil)
				return
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		// Demoting the last editor would lock everyone out of management.
		if user.Role == db.RoleEditor && *req.Role != db.RoleEditor {
			editors, err := a.store.CountUsersByRole(db.RoleEditor)
			if err != nil {
				utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to count editors", nil)
				return
			}
			if editors <= 1 {
				utils.ResponseWithError(c, http.StatusBadRequest, "Cannot demote the last remaining editor", nil)
				return
			}
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.WebsiteURL != nil {
		user.WebsiteURL = req.WebsiteURL
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Keywords != nil {
		user.Keywords = pq.StringArray(req.Keywords)
	}

	if err := a.store.UpdateUser(user); err != nil {
		log.Errorf("UpdateUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update user", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser removes a user. The last remaining editor may not be deleted.
// Editor-only.
func (a *API) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	user, err := a.store.FindUserByID(id)
	if err != nil {
		log.Errorf("DeleteUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load user", nil)
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	if user.Role == db.RoleEditor {
		editors, err := a.store.CountUsersByRole(db.RoleEditor)
		if err != nil {
			utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to count editors", nil)
			return
		}
		if editors <= 1 {
			utils.ResponseWithError(c, http.StatusBadRequest, "Cannot delete the last remaining editor", nil)
			return
		}
	}

	if err := a.store.DeleteUser(id); err != nil {
		log.Errorf("DeleteUser: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete user", nil)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, "User deleted successfully", nil)
}
