package serverutils

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const UserIdLocalKey = "user_id"

var (
	jwtSecret atomic.Value
	jwtIssuer atomic.Value
)

// SetJwtSecret installs the HMAC secret used by JwtMiddleware and ParseUserId.
func SetJwtSecret(secret string) {
	jwtSecret.Store([]byte(secret))
}

// SetJwtIssuer makes ParseUserId reject tokens whose "iss" differs. An empty
// issuer disables the check.
func SetJwtIssuer(issuer string) {
	jwtIssuer.Store(issuer)
}

func parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if iss, ok := jwtIssuer.Load().(string); ok && iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	return opts
}

func secret() []byte {
	if s, ok := jwtSecret.Load().([]byte); ok {
		return s
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// ParseUserId verifies an HS256 token and returns its subject. The identity
// provider puts the user in "sub"; tokens minted by older clients use "user_id".
func ParseUserId(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret(), nil
	}, parserOptions()...)
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		return uid, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", errors.New("token missing subject")
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := BearerToken(ctx.Get("Authorization"))
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	userId, err := ParseUserId(tokenStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	ctx.Locals(UserIdLocalKey, userId)
	return ctx.Next()
}

// GetUserId reads the authenticated user id stored by JwtMiddleware.
func GetUserId(ctx *fiber.Ctx) string {
	userId, _ := ctx.Locals(UserIdLocalKey).(string)
	return userId
}
