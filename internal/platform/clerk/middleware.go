package clerk

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/api"
	companydomain "jobportal_backend/internal/feature/companies/domain"
	companyentity "jobportal_backend/internal/feature/companies/domain/entity"
	userdomain "jobportal_backend/internal/feature/users/domain"
	userentity "jobportal_backend/internal/feature/users/domain/entity"
)

// Context keys set by the guards.
const (
	ContextClaims  = "clerkClaims"
	ContextUser    = "currentUser"
	ContextCompany = "currentCompany"
)

// SessionCookie is the cookie browsers send the session token in.
const SessionCookie = "__session"

// Messages returned by the guards.
const (
	MsgLoginRequired        = "Please login to access this resource"
	MsgCompanyLoginRequired = "Please login as a company to access this resource"
	MsgUserNotFound         = "User not found"
	MsgCompanyNotFound      = "Company not found"
)

// TokenVerifier validates a raw session token.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// UserResolver looks up the user a token belongs to.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*userentity.User, error)
}

// CompanyResolver looks up the company an organization id belongs to.
type CompanyResolver interface {
	FindByClerkID(ctx context.Context, clerkID string) (*companyentity.Company, error)
}

// Authenticate verifies the session token from the Authorization header or the session
// cookie and stores its claims on the context. It never touches the database.
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			api.AbortFail(c, http.StatusUnauthorized, MsgLoginRequired)
			return
		}

		claims, err := v.Verify(token)
		if err != nil {
			slog.Warn("session token rejected", "error", err, "remote_addr", c.ClientIP())
			api.AbortFail(c, http.StatusUnauthorized, MsgLoginRequired)
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireUser resolves the authenticated subject to a stored user.
// It must run after Authenticate.
func RequireUser(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.UserID() == "" {
			api.AbortFail(c, http.StatusUnauthorized, MsgLoginRequired)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID())
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				api.AbortFail(c, http.StatusUnauthorized, MsgUserNotFound)
				return
			}
			slog.Error("resolve user failed", "error", err, "user_id", claims.UserID())
			api.AbortFail(c, http.StatusInternalServerError, api.MsgInternal)
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireCompany resolves the session's active organization to a stored company.
// It must run after Authenticate.
func RequireCompany(companies CompanyResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.OrganizationID() == "" {
			api.AbortFail(c, http.StatusUnauthorized, MsgCompanyLoginRequired)
			return
		}

		company, err := companies.FindByClerkID(c.Request.Context(), claims.OrganizationID())
		if err != nil {
			if errors.Is(err, companydomain.ErrCompanyNotFound) {
				api.AbortFail(c, http.StatusUnauthorized, MsgCompanyNotFound)
				return
			}
			slog.Error("resolve company failed", "error", err, "org_id", claims.OrganizationID())
			api.AbortFail(c, http.StatusInternalServerError, api.MsgInternal)
			return
		}

		c.Set(ContextCompany, company)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}

// UserFrom returns the user stored by RequireUser.
func UserFrom(c *gin.Context) (*userentity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*userentity.User)
	return user, ok && user != nil
}

// CompanyFrom returns the company stored by RequireCompany.
func CompanyFrom(c *gin.Context) (*companyentity.Company, bool) {
	v, ok := c.Get(ContextCompany)
	if !ok {
		return nil, false
	}
	company, ok := v.(*companyentity.Company)
	return company, ok && company != nil
}

func tokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
