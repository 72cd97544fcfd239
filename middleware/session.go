package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/Shr3y4sm/SpendSmart/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "spendsmart_session"

var jwtSecret []byte

// SessionClaims are the claims stored in the session token.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// InitAuth sets the signing secret for session tokens.
func InitAuth(cfg *config.Config) {
	jwtSecret = []byte(cfg.Auth.Secret)
}

// GenerateToken issues a signed session token for a user.
func GenerateToken(userID uint, username string, expire time.Duration) (string, error) {
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "spendsmart",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// cookieOptions returns cookie security options for the current run mode.
// Release mode marks the cookie Secure; SameSite=Lax keeps cross-site POSTs
// from carrying the session while allowing normal navigation.
func cookieOptions() (secure bool, sameSite http.SameSite) {
	if config.GlobalConfig != nil && config.GlobalConfig.Server.Mode == "release" {
		secure = true
	}
	return secure, http.SameSiteLaxMode
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(c *gin.Context, token string, expire time.Duration) {
	secure, sameSite := cookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(SessionCookieName, token, int(expire.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context) {
	secure, sameSite := cookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// SessionAuth requires a valid session cookie and stores the user identity
// on the request context.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetCurrentUserID returns the authenticated user's ID from the context.
func GetCurrentUserID(c *gin.Context) uint {
	if id, ok := c.Get("userID"); ok {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}
