package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/utils"
)

var errInvalidID = errors.New("invalid id")

// paramID -> positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func badRequest(err error) *utils.AppError {
	return utils.ErrBadRequest("Invalid request: " + err.Error())
}

// identity -> the caller set by RequireUser; routes without it are a wiring bug
func identity(c *gin.Context) (utils.Identity, bool) {
	who, ok := utils.CurrentIdentity(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized)
	}
	return who, ok
}
