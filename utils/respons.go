package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type PaymentErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func RespondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// RespondError writes {message} and logs the hidden cause of server-side failures.
func RespondError(c *gin.Context, err error) {
	appErr := logAppError(c, err)
	c.JSON(appErr.Status, MessageResponse{Message: appErr.Message})
}

// RespondPaymentError is RespondError with the {success:false,message} envelope of payment routes.
func RespondPaymentError(c *gin.Context, err error) {
	appErr := logAppError(c, err)
	c.JSON(appErr.Status, PaymentErrorResponse{Success: false, Message: appErr.Message})
}

func logAppError(c *gin.Context, err error) *AppError {
	appErr := AsAppError(err)
	if appErr.Status >= 500 {
		ErrorLogger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString(RequestIDKey),
		}).Errorf("%s: %v", appErr.Message, appErr.Err)
	}
	return appErr
}
