package logger

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LOG returns a request-scoped sublogger
func LOG(c *gin.Context) *logrus.Entry {
	return NewSublogger("gateway").
		WithField("method", c.Request.Method).
		WithField("path", c.Request.URL.Path)
}

// LOGE aborts the request with the given status and the common error shape,
// and returns an entry the handler can still attach a message to.
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	body := gin.H{"error": http.StatusText(status)}
	if err != nil {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)

	entry := LOG(c).WithField("status", status)
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}
