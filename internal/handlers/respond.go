package handlers

import (
	"log"
	"net/http"
	"strconv"

	"ecommerce_api/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error onto the taxonomy's HTTP status with a
// {message} body. Untagged errors are logged and collapse to a 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"message": apperrors.ClientMessage(err)})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondError(c, apperrors.Newf(apperrors.KindInvalidInput, "invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
