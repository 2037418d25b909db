package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/storage"
)

const identityCtxKey = "identity"

var errInvalidAuthToken = errors.New("missing or invalid authorization token")

// HandleAuthMiddleware guards every protected route. A missing header,
// a malformed header and an invalid or expired token all produce the
// same unauthorized response. On success the verified Identity is
// attached to the request context; handlers extract it once and pass it
// down by parameter.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	claims, err := h.tokens.Verify(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify token")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	// Admin status is a live account attribute, so it is re-resolved
	// from the user record instead of being trusted from claims minted
	// up to an hour ago.
	user, err := h.users.GetUserByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.logger.Error().
				Str("user_id", claims.Subject).
				Msg("token subject no longer exists")
			abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to select token subject")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Set(identityCtxKey, auth.Identity{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	c.Next()
}

func identityFromContext(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(identityCtxKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
