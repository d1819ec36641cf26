package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"levelup/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the lifetime of session tokens and cookies
const TokenTTL = 24 * time.Hour

var errNoToken = errors.New("missing token")

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, username, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"role":     role,
		"email":    email,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// tokenFromRequest reads a bearer token, falling back to the session cookie
// set at login for browser flows.
func tokenFromRequest(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", errors.New("invalid Authorization header format")
		}
		return authHeader[len("Bearer "):], nil
	}
	if cookie := c.Cookies(config.AppConfig.SessionCookie); cookie != "" {
		return cookie, nil
	}
	return "", errNoToken
}

func parseToken(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid token payload")
	}
	userID, ok := claims["userId"].(float64) // JWT numbers decode as float64
	if !ok || userID <= 0 {
		return 0, "", errors.New("invalid token payload")
	}
	role, _ := claims["role"].(string)
	return uint(userID), role, nil
}

// JWTMiddleware rejects requests without a valid session token
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString, err := tokenFromRequest(c)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	userID, role, err := parseToken(tokenString)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	c.Locals("userId", userID)
	c.Locals("role", role)
	return c.Next()
}

// OptionalJWT identifies the caller when a valid token is present and lets
// anonymous requests through; handlers decide what anonymity means.
func OptionalJWT(c *fiber.Ctx) error {
	if tokenString, err := tokenFromRequest(c); err == nil {
		if userID, role, err := parseToken(tokenString); err == nil {
			c.Locals("userId", userID)
			c.Locals("role", role)
		}
	}
	return c.Next()
}

// UserID returns the authenticated user id, or 0
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userId").(uint)
	return id
}

// SetSessionCookie stores token in an HttpOnly cookie
func SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     config.AppConfig.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(TokenTTL),
		HTTPOnly: true,
		Secure:   config.AppConfig.AppEnv == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.ClearCookie(config.AppConfig.SessionCookie)
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, fieldErrors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", fieldErrors)
}
