package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"costlens/config"
	"costlens/internal/cron"
	"costlens/internal/service"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RuntimeInfo /version 的回應
type RuntimeInfo struct {
	Env       string    `json:"env"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	GoVersion string    `json:"go_version"`
	StartAt   time.Time `json:"start_at"`
	Uptime    string    `json:"uptime"`
}

type App struct {
	conf          *config.Configuration
	logger        *zap.Logger
	cronSrv       *cron.Cron
	Router        *gin.Engine
	httpServer    *http.Server
	healthService *service.HealthService
	trace         *telemetry.Trace

	startAt time.Time
	appInfo RuntimeInfo
}

func newHttpServer(
	conf *config.Configuration,
	router *gin.Engine,
) *http.Server {
	port := conf.App.Port
	if port == 0 {
		port = 3000
	}
	return &http.Server{
		Addr:              ":" + strconv.FormatUint(uint64(port), 10),
		Handler:           withVersionHeader(conf.App.Version, router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// gin 的 Use 不會套用到已註冊的路由
func withVersionHeader(version string, next http.Handler) http.Handler {
	if version == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-Version", version)
		next.ServeHTTP(w, r)
	})
}

func newApp(
	conf *config.Configuration,
	logger *zap.Logger,
	router *gin.Engine,
	httpServer *http.Server,
	healthService *service.HealthService,
	cronSrv *cron.Cron,
	trace *telemetry.Trace,
) *App {
	startAt := time.Now()
	return &App{
		conf:          conf,
		logger:        logger,
		Router:        router,
		httpServer:    httpServer,
		healthService: healthService,
		cronSrv:       cronSrv,
		trace:         trace,
		startAt:       startAt,
		appInfo: RuntimeInfo{
			Env:       conf.App.Env,
			Name:      conf.App.Name,
			Version:   conf.App.Version,
			GoVersion: runtime.Version(),
			StartAt:   startAt,
		},
	}
}

func (a *App) Run() error {
	a.logger.Info("app runtime info",
		zap.String("env", a.appInfo.Env),
		zap.String("name", a.appInfo.Name),
		zap.String("version", a.appInfo.Version),
		zap.String("go_version", a.appInfo.GoVersion),
		zap.Time("start_at", a.appInfo.StartAt),
	)
	if a.Router != nil {
		a.Router.GET("/version", a.versionHandler)
	}

	if err := a.cronSrv.Run(); err != nil {
		return err
	}
	a.logger.Info("cron server started")

	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	a.healthService.SetReady(true)
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if a.healthService != nil {
		a.healthService.SetReady(false)
	}
	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		a.logger.Info("http server has been stop")
	}
	if a.cronSrv != nil {
		if err := a.cronSrv.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
		a.logger.Info("cron server has been stop")
	}
	// 關機過程的 span 也要送出，trace 最後關
	if err := a.trace.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) Stop(ctx context.Context) error {
	return a.Close(ctx)
}

func (a *App) versionHandler(c *gin.Context) {
	info := a.appInfo
	info.Uptime = time.Since(a.startAt).Round(time.Second).String()
	c.JSON(http.StatusOK, info)
}
