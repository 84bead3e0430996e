package server

import (
	"context"
	"errors"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/harborlist/harborlist/internal/config"
)

func (s *Server) getUID(c echo.Context) (string, error) {

	var (
		reqClientID = c.Request().Header.Get(config.HEADER_KEY_X_CLIENT_ID)
		reqUID      = c.Request().Header.Get(config.HEADER_KEY_X_UID)
		clientID    = os.Getenv(config.ENV_KEY_CLIENT_ID)
	)

	// trusted internal clients pass the uid directly
	if reqClientID != "" &&
		reqUID != "" &&
		reqClientID == clientID {

		return reqUID, nil
	}

	var auth = c.Request().Header.Get("Authorization")

	if len(auth) < len("Bearer ") {
		return "", errors.New("authorization header is required")
	}

	token := auth[len("Bearer "):]

	return s.server.VerifyIDToken(c.Request().Context(), token)
}

// AuthMiddleware checks the authorization header, verifies the token
// via the injected identity provider and transforms the request to
// carry the acting user's id in the downstream context.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		var (
			ctx = c.Request().Context()
		)

		uid, err := s.getUID(c)
		if err != nil {
			return c.JSON(401, map[string]string{
				"error":   err.Error(),
				"message": "Invalid token",
			})
		}

		au, err := s.server.GetAuthUserByUID(ctx, uid)
		if err != nil {
			return c.JSON(401, map[string]string{
				"error":   err.Error(),
				"message": "User not found",
			})
		}

		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ID, au.UserID)
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ROLE, au.GlobalRole)

		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
