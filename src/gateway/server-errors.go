package gateway

import (
	"net/http"

	. "claimgate/src/utils/logger"
	"claimgate/src/utils/model"

	"github.com/gin-gonic/gin"
)

// Maps store errors to the response status and bumps the matching counter
func (self *Server) failStore(c *gin.Context, err error, message string) {
	switch {
	case model.IsDuplicateKey(err):
		self.monitor.Report.Gateway.Errors.DuplicateKey.Inc()
		LOGE(c, err, http.StatusConflict).Error(message)
	case model.IsNotFound(err):
		self.monitor.Report.Gateway.Errors.NotFound.Inc()
		LOGE(c, err, http.StatusNotFound).Error(message)
	case model.IsConnectivity(err):
		self.monitor.Report.Gateway.Errors.DbConnectivity.Inc()
		LOGE(c, err, http.StatusServiceUnavailable).Error(message)
	default:
		self.monitor.Report.Gateway.Errors.DbError.Inc()
		LOGE(c, err, http.StatusInternalServerError).Error(message)
	}
}

func (self *Server) failBadRequest(c *gin.Context, err error, message string) {
	self.monitor.Report.Gateway.Errors.BadRequest.Inc()
	LOGE(c, err, http.StatusBadRequest).Error(message)
}

func (self *Server) failNotFound(c *gin.Context, message string) {
	self.monitor.Report.Gateway.Errors.NotFound.Inc()
	LOGE(c, nil, http.StatusNotFound).Error(message)
}

func (self *Server) failUnauthorized(c *gin.Context, message string) {
	self.monitor.Report.Gateway.Errors.Unauthorized.Inc()
	LOGE(c, nil, http.StatusForbidden).Error(message)
}
