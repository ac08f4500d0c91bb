package httpapi

import (
	"restaurant-api/internal/apperr"
	"restaurant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// fail renders err as {"msg": ...} with its taxonomy status. Internal causes
// are logged and never sent to the client.
func fail(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		logger.FromGin(c).Error("request failed", "err", err)
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.PublicMessage(err)})
}
