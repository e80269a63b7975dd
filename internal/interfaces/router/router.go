package router

import (
	"net/http"

	adminsvc "carbid-backend/internal/application/admin"
	authsvc "carbid-backend/internal/application/auth"
	bidsvc "carbid-backend/internal/application/bidding"
	carsvc "carbid-backend/internal/application/cars"
	closersvc "carbid-backend/internal/application/closer"
	emailsvc "carbid-backend/internal/application/emails"
	likesvc "carbid-backend/internal/application/likes"
	ratingsvc "carbid-backend/internal/application/ratings"
	uploadsvc "carbid-backend/internal/application/uploads"
	usersvc "carbid-backend/internal/application/user"
	"carbid-backend/internal/config"
	"carbid-backend/internal/infrastructure/database"
	adminhandler "carbid-backend/internal/interfaces/handlers/admin"
	authhandler "carbid-backend/internal/interfaces/handlers/auth"
	bidhandler "carbid-backend/internal/interfaces/handlers/bids"
	carhandler "carbid-backend/internal/interfaces/handlers/cars"
	cronhandler "carbid-backend/internal/interfaces/handlers/cron"
	healthhandler "carbid-backend/internal/interfaces/handlers/health"
	uploadhandler "carbid-backend/internal/interfaces/handlers/uploads"
	userhandler "carbid-backend/internal/interfaces/handlers/users"
	"carbid-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// openDatabase is swapped for an in-memory database in tests.
var openDatabase = database.Open

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
		Externals:      map[string]string{"storage": cfg.SupabaseURL},
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = openDatabase(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		var emailSender emailsvc.Sender
		if cfg.ResendAPIKey != "" {
			emailSender = &emailsvc.ResendClient{
				APIKey:     cfg.ResendAPIKey,
				MailFrom:   cfg.MailFrom,
				AppBaseURL: cfg.AppBaseURL,
			}
		}

		// Users: registration is public, dashboard requires a session
		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us}
		app.Post("/api/v1/users", uh.Register)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Get("/dashboard", uh.Dashboard)

		// Cars, likes and ratings
		cs := &carsvc.Service{DB: db}
		ch := &carhandler.Handlers{
			Cars:    cs,
			Likes:   &likesvc.Service{DB: db},
			Ratings: &ratingsvc.Service{DB: db},
		}
		app.Get("/api/v1/cars", ch.List)
		app.Get("/api/v1/cars/:carId", ch.Get)

		// Bids: history is public, placing requires a session. The history
		// route must be registered before the RequireAuth group below, or the
		// group's prefix-matched middleware would gate it too.
		bs := &bidsvc.Service{DB: db, Emails: emailSender}
		bh := &bidhandler.Handlers{Service: bs}
		app.Get("/api/v1/cars/:carId/bids", bh.History)

		cg := app.Group("/api/v1/cars", middleware.RequireAuth())
		cg.Post("/", ch.Create)
		cg.Patch("/:carId/status", ch.UpdateStatus)
		cg.Post("/:carId/likes", ch.Like)
		cg.Delete("/:carId/likes", ch.Unlike)
		cg.Get("/:carId/likes", middleware.RequireAdmin(), ch.ListLikes)
		cg.Post("/:carId/ratings", ch.Rate)
		cg.Get("/:carId/ratings", middleware.RequireAdmin(), ch.ListRatings)
		cg.Post("/:carId/bids", bh.Place)

		// Admin
		as := &adminsvc.Service{DB: db}
		adh := &adminhandler.Handlers{Stats: as, Cars: cs, DB: db}
		ag := app.Group("/api/v1/admin", middleware.RequireAuth(), middleware.RequireAdmin())
		ag.Get("/stats", adh.GetStats)
		ag.Get("/cars/:carId", adh.GetCarDetail)

		// Uploads
		sc := &uploadsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
		upsvc := &uploadsvc.Service{Client: sc, SupabaseURL: cfg.SupabaseURL}
		uph := &uploadhandler.Handlers{Service: upsvc}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/car-image", uph.UploadCarImage)

		// Cron: auction closing sweep, trigger guarded by shared secret
		cls := &closersvc.Service{DB: db, Emails: emailSender}
		crh := &cronhandler.Handlers{Closer: cls, CronSecret: cfg.CronSecret}
		app.Post("/api/v1/cron/auction-status", crh.SweepAuctions)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
