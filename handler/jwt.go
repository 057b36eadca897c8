package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "seopilot_session"
	sessionTTL        = 7 * 24 * time.Hour
)

type jwtClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type JWTMiddleware struct {
	secret []byte
	secure bool
}

// NewJWTMiddleware signs and checks tokens with secret. secure marks the
// session cookie HTTPS-only.
func NewJWTMiddleware(secret string, secure bool) *JWTMiddleware {
	return &JWTMiddleware{secret: []byte(secret), secure: secure}
}

func (m *JWTMiddleware) signJWTToken(id uint, email, name string) (string, error) {
	claims := &jwtClaims{
		ID:    id,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

func (m *JWTMiddleware) validateToken(tokenString string) (jwtClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return m.secret, nil
	})
	if err != nil {
		return jwtClaims{}, err
	}
	if !token.Valid {
		return jwtClaims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwtClaims{}, errors.New("invalid token claims")
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return jwtClaims{}, errors.New("user id not found in claims")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return jwtClaims{}, errors.New("email not found in claims")
	}

	name, ok := claims["name"].(string)
	if !ok {
		return jwtClaims{}, errors.New("name not found in claims")
	}

	return jwtClaims{
		ID:    uint(id),
		Email: email,
		Name:  name,
	}, nil
}

func authSession(c echo.Context) (jwtClaims, error) {
	u := c.Get("user")
	if u == nil {
		return jwtClaims{}, errors.New("missing session")
	}

	user, ok := u.(jwtClaims)
	if !ok {
		return jwtClaims{}, errors.New("invalid session")
	}

	return user, nil
}

// ValidateJWT requires a bearer token or a session cookie.
func (m *JWTMiddleware) ValidateJWT(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, response{
				Success: false,
				Message: err.Error(),
			})
		}

		user, err := m.validateToken(token)
		if err != nil || user.ID == 0 {
			msg := "cannot validate token"
			if err != nil {
				msg += ": " + err.Error()
			}
			return c.JSON(http.StatusUnauthorized, response{
				Success: false,
				Message: msg,
			})
		}

		c.Set("user", user)

		return next(c)
	}
}

// LoadSession sets the user from the session cookie when it is valid and lets
// every request through.
func (m *JWTMiddleware) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			if user, err := m.validateToken(cookie.Value); err == nil && user.ID != 0 {
				c.Set("user", user)
			}
		}
		return next(c)
	}
}

func (m *JWTMiddleware) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *JWTMiddleware) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
		return "", errors.New("authorization token is required")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return "", errors.New("token is malformed")
	}

	return token, nil
}
