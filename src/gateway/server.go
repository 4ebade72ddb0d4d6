package gateway

import (
	"context"
	"net/http"
	"time"

	"claimgate/src/utils/config"
	"claimgate/src/utils/eth"
	"claimgate/src/utils/model"
	monitor_gateway "claimgate/src/utils/monitoring/gateway"
	"claimgate/src/utils/publisher"
	"claimgate/src/utils/task"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/teivah/onecontext"
)

// Rest API server, serves the platform endpoints
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	store     model.Store
	contracts *eth.Contracts
	monitor   *monitor_gateway.Monitor

	// Chain reads backing list endpoints are cached for a short TTL
	chainCache *cache.Cache

	// Document events, nil when Redis is disabled
	events chan publisher.Event

	// Transactions queued for the background recorder
	recorderInput chan *model.Transaction
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "server").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()

	// Store and chain calls receive the request context, deadlines included
	self.Router.ContextWithFallback = true

	// Cancels in-flight handlers when the server shuts down
	self.Router.Use(func(c *gin.Context) {
		ctx, cancel := onecontext.Merge(self.Ctx, c.Request.Context())
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	self.chainCache = cache.New(config.Gateway.ChainReadCacheTTL, 5*time.Minute)

	self.httpServer = &http.Server{
		Addr:    self.Config.Gateway.ListenAddress,
		Handler: self.Router,
	}

	// Handlers are bound methods, dependencies wired later are picked up
	self.registerRoutes()

	return
}

func (self *Server) WithStore(store model.Store) *Server {
	self.store = store
	return self
}

func (self *Server) WithContracts(contracts *eth.Contracts) *Server {
	self.contracts = contracts
	return self
}

func (self *Server) WithMonitor(monitor *monitor_gateway.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) WithEventChannel(events chan publisher.Event) *Server {
	self.events = events
	return self
}

func (self *Server) WithRecorderChannel(input chan *model.Transaction) *Server {
	self.recorderInput = input
	return self
}

func (self *Server) registerRoutes() {
	api := self.Router.Group("api")
	{
		identity := api.Group("identity")
		{
			identity.POST("claim/request", self.onCreateClaimRequest)
			identity.GET("claim/request", self.onGetClaimRequests)
			identity.POST("claim/approve", self.onApproveClaim)
			identity.POST("claim/reject", self.onRejectClaim)
			identity.GET("claims", self.onListCompletedClaims)
			identity.GET("claim/check", self.onCheckClaim)
			identity.GET("statistics", self.onStatistics)
		}

		api.GET("claims/request", self.onListPendingClaims)

		trustedIssuers := api.Group("trusted-issuers")
		{
			trustedIssuers.POST("request", self.onCreateTrustedIssuerRequest)
			trustedIssuers.GET("request", self.onGetTrustedIssuerRequests)
			trustedIssuers.POST("approve", self.onApproveTrustedIssuer)
			trustedIssuers.POST("reject", self.onRejectTrustedIssuer)
		}

		api.GET("tokens", self.onGetTokens)
		api.POST("tokens/create", self.onCreateToken)

		api.POST("transactions", self.onRecordTransaction)
		api.GET("transactions", self.onGetTransactions)
	}
}

func (self *Server) run() (err error) {
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}

// Drops the event when the channel is full, events are best effort
func (self *Server) emit(event publisher.Event) {
	if self.events == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	select {
	case self.events <- event:
	default:
		self.Log.WithField("kind", event.Kind).Warn("Event channel full, dropping event")
	}
}

// Queues a transaction for the background recorder
func (self *Server) record(transaction *model.Transaction) (ok bool) {
	if self.recorderInput == nil {
		return false
	}
	select {
	case self.recorderInput <- transaction:
		return true
	default:
		self.monitor.Report.Gateway.Errors.RecorderFailures.Inc()
		self.Log.Warn("Recorder channel full, dropping transaction")
		return false
	}
}

// Caps the requested limit with the configured hard limit
func (self *Server) listLimit(requested int64) int64 {
	max := self.Config.Gateway.ListLimit
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}
