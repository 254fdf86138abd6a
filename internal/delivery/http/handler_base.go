package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"acquire-server/internal/apperrors"
	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/logger"
)

// BaseHandler centralizes error translation so individual handlers
// stay focused on request parsing and router/engine calls, following
// the teacher's BaseHandler split (WriteJSONResponse/WriteErrorResponse),
// adapted from net/http's ResponseWriter to gin.Context.
type BaseHandler struct {
	log *zap.Logger
}

func NewBaseHandler() BaseHandler {
	return BaseHandler{log: logger.Get()}
}

// Fail writes err as the apperrors-shaped JSON body with its mapped
// status code, logging internal errors with their real cause.
func (h BaseHandler) Fail(c *gin.Context, err error) {
	appErr, ok := err.(*apperrors.Error)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.Code == apperrors.CodeInternal {
		h.log.Error("internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
	c.AbortWithStatusJSON(appErr.Status(), dto.ErrorPayload{Code: string(appErr.Code), Message: appErr.Message})
}
