// Package app wires the HTTP routes to their handlers
package app

import (
	"fmt"
	"gomeet/meetup-api/app/file"
	"gomeet/meetup-api/app/meetup"
	"gomeet/meetup-api/app/notification"
	"gomeet/meetup-api/app/root"
	"gomeet/meetup-api/app/subscription"
	"gomeet/meetup-api/app/user"
	"gomeet/meetup-api/db"
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/notify"
	"gomeet/meetup-api/internal/queue"
	"gomeet/meetup-api/internal/service"
	"gomeet/meetup-api/pkg/middleware"
	"gomeet/meetup-api/pkg/security"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store persist.CacheStore

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{
		Argon: security.New(),
	}

	gormDB, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = gormDB

	mongoDB, err := db.NewMongo()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB, %w", err)
	}
	d.Notifications = notify.NewStore(mongoDB)

	storage, err := service.NewStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}
	d.Storage = storage

	d.Queue = queue.NewClient()

	store = persist.NewRedisStore(redis.NewClient(&redis.Options{
		Addr: viper.GetString("redis.addr"),
	}))

	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(gormDB)
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})

	m := router.Group("", rateLimiter)
	{
		// HEAD /heartbeat			-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// POST /users 				-> Registers a new user
		m.POST("/users", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /sessions 			-> Logs in a user and returns a JWT token
		m.POST("/sessions", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { user.UserLogin(c, d) })
	}

	auth := m.Group("", jwt)
	{
		// GET /users				-> Returns the caller's profile
		auth.GET("/users", func(c *gin.Context) { user.UserFetch(c, d) })

		// PUT /users				-> Updates the caller's profile
		auth.PUT("/users", func(c *gin.Context) { user.UserUpdate(c, d) })

		// POST /files				-> Uploads a meetup banner
		auth.POST("/files", middleware.BodySizeLimiter(viper.GetInt64("upload.max_size")), func(c *gin.Context) { file.FileUpload(c, d) })

		// GET /meetups				-> Lists meetups, optionally filtered by day
		auth.GET("/meetups", cacheFor(15), func(c *gin.Context) { meetup.MeetupList(c, d) })

		// POST /meetups			-> Creates a meetup owned by the caller
		auth.POST("/meetups", func(c *gin.Context) { meetup.MeetupCreate(c, d) })

		// PUT /meetups/:id			-> Updates a meetup, organizer only
		auth.PUT("/meetups/:id", func(c *gin.Context) { meetup.MeetupUpdate(c, d) })

		// DELETE /meetups/:id			-> Cancels a meetup, organizer only
		auth.DELETE("/meetups/:id", func(c *gin.Context) { meetup.MeetupDelete(c, d) })

		// GET /organizing			-> Lists the caller's own meetups
		auth.GET("/organizing", func(c *gin.Context) { meetup.MeetupOrganizing(c, d) })

		// GET /notifications			-> Lists the caller's notifications
		auth.GET("/notifications", func(c *gin.Context) { notification.NotificationList(c, d) })

		// PUT /notifications/:id		-> Marks a notification as read
		auth.PUT("/notifications/:id", func(c *gin.Context) { notification.NotificationUpdate(c, d) })

		// POST /meetups/:meetupId/subscriptions -> Subscribes the caller to a meetup
		auth.POST("/meetups/:meetupId/subscriptions", func(c *gin.Context) { subscription.SubscriptionCreate(c, d) })
	}

	if viper.GetString("storage.type") == "local" {
		router.Static("/files", viper.GetString("storage.path"))
	}

	// Mail worker consuming the jobs the subscription endpoint enqueues
	mailer, err := service.NewMailer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer, %w", err)
	}

	worker := queue.NewWorker(mailer)
	if err := worker.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mail worker, %w", err)
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
