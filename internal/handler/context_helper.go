package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

func pageRequestFromQuery(c *gin.Context) (page, size int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		size = v
	}
	return page, size
}

func bindError(err error, message string) error {
	return appErrors.WrapAs(err, appErrors.ErrValidation, message)
}
