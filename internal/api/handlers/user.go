package handlers

import (
	"net/http"

	"election-service/internal/api/middleware"
	"election-service/internal/models"
	"election-service/internal/services"
	"election-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
	voteService *services.VoteService
}

func NewUserHandler(userService *services.UserService, voteService *services.VoteService) *UserHandler {
	return &UserHandler{userService: userService, voteService: voteService}
}

// Register godoc
// @Summary Register a new user
// @Description Register a voter or candidate account. Accepts JSON, or multipart form data with an optional image file.
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Param request body models.RegisterRequest true "User registration data"
// @Param image formData file false "Profile image"
// @Success 201 {object} models.AuthResponse "User created successfully"
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data or user already exists"
// @Failure 403 {object} models.ErrorResponse "Admin accounts cannot be self-registered"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	image, err := optionalFile(c, "image")
	if err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req, image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary User login
// @Description Authenticate user with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "User login credentials"
// @Success 200 {object} models.AuthResponse "Login successful - returns JWT token and user data"
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Invalid email or password"
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	auth, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, auth)
}

// GetMe godoc
// @Summary Get current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List all users
// @Description Admin only. Includes each user's age computed from the date of birth.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AdminUserResponse
// @Failure 403 {object} models.ErrorResponse "Forbidden"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateProfile godoc
// @Summary Update current user's profile
// @Description Update name, email, password or party. Returns a fresh token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 404 {object} models.ErrorResponse "User or party not found"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	auth, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, auth)
}

// DeleteProfile godoc
// @Summary Delete current user's account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/profile [delete]
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	if err := h.userService.DeleteProfile(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, "User removed")
}

// VotedElections godoc
// @Summary Elections the current user has voted in
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} integer
// @Router /users/voted-elections [get]
func (h *UserHandler) VotedElections(c *gin.Context) {
	ids, err := h.voteService.VotedElections(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if ids == nil {
		ids = []uint{}
	}
	c.JSON(http.StatusOK, ids)
}

// VoteDetails godoc
// @Summary The current user's vote in an election
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param electionId path int true "Election ID"
// @Success 200 {object} models.VoteDetails
// @Failure 404 {object} models.ErrorResponse "Vote not found"
// @Router /users/vote-details/{electionId} [get]
func (h *UserHandler) VoteDetails(c *gin.Context) {
	electionID, ok := paramID(c, "electionId")
	if !ok {
		return
	}

	details, err := h.voteService.VoteDetails(c.Request.Context(), middleware.CurrentUserID(c), electionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
