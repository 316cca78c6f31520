package api

import (
	"net/http"

	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the account behind the bearer token. Token issuance
// happens outside this service.
type AuthHandler struct {
	q queries.UserQueries
}

func NewAuthHandler(q queries.UserQueries) *AuthHandler {
	return &AuthHandler{q: q}
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.Envelope{data=resdto.UserResponse}
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		// Unexpected error: should be used after RequireAuth()
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	user, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OK("", resdto.FromAuthorizedUserView(user)))
}
