package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
	"election-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

type AuthMiddleware struct {
	jwtSecret string
	users     UserLookup
}

// NewAuthMiddleware validates tokens signed with jwtSecret. With a non-nil
// users lookup every request also reloads the account, so tokens of
// deleted users stop working and role changes apply immediately.
func NewAuthMiddleware(jwtSecret string, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		users:     users,
	}
}

// tokenFromRequest reads the bearer header, falling back to the token
// query parameter that browser websocket clients have to use.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Query("token")
}

func (am *AuthMiddleware) parse(tokenString string) (uint, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, "", errors.New("user_id claim must be a number")
	}

	roleClaim, _ := claims["role"].(string)
	role := models.Role(roleClaim)
	if !role.Valid() {
		return 0, "", fmt.Errorf("unknown role %q", roleClaim)
	}

	return uint(userID), role, nil
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, no token", "")
			return
		}

		userID, role, err := am.parse(tokenString)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, token failed", err.Error())
			return
		}

		if am.users != nil {
			user, err := am.users.FindByID(c.Request.Context(), userID)
			if errors.Is(err, sqlstore.ErrNotFound) {
				response.Abort(c, http.StatusUnauthorized, "Not authorized, user not found", "")
				return
			}
			if err != nil {
				slog.Error("Failed to load token user", "userID", userID, "error", err)
				response.Abort(c, http.StatusInternalServerError, "Server error", "")
				return
			}
			role = user.Role
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole lets the request through when allowed(role) is true. Must run
// after RequireAuth.
func RequireRole(allowed func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Not authorized", "")
			return
		}
		if !allowed(role.(models.Role)) {
			response.Abort(c, http.StatusForbidden, "Forbidden", "your role is not allowed to perform this action")
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts the route to admin accounts.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.Role.CanManageElections)
}

func CurrentUserID(c *gin.Context) uint {
	return c.MustGet(ContextUserID).(uint)
}

func CurrentRole(c *gin.Context) models.Role {
	return c.MustGet(ContextRole).(models.Role)
}
