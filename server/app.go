package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"fpbg/config"
	"fpbg/internal/aap"
	"fpbg/internal/auth"
	"fpbg/internal/db"
	"fpbg/internal/health"
	"fpbg/internal/jobs"
	"fpbg/internal/logs"
	"fpbg/internal/mailer"
	"fpbg/internal/middleware"
	"fpbg/internal/models"
	"fpbg/internal/organisations"
	"fpbg/internal/pending"
	"fpbg/internal/projets"
	"fpbg/internal/repo"
	"fpbg/internal/uploads"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	Handler    http.Handler
	httpServer *http.Server
	purge      *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Logs */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB + migrations */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d
	if err := a.db.AutoMigrate(
		&models.Utilisateur{},
		&models.Organisation{},
		&models.DemandeSubvention{},
		&models.Activite{},
		&models.SousActivite{},
		&models.LigneBudget{},
		&models.Risque{},
		&models.PieceJointe{},
		&models.Cofinanceur{},
		&models.AppelProjets{},
		&models.Subvention{},
		&models.CycleStep{},
		&models.Thematique{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	/* 3) Store des inscriptions en attente : mémoire ou Redis */
	var pendings pending.Store
	switch a.cfg.Pending.Backend {
	case "redis":
		rs := pending.NewRedisStore(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rs.Ping(pingCtx); err != nil {
			cancel()
			log.Fatalf("redis unreachable: %v", err)
		}
		cancel()
		pendings = rs
	default:
		mem := pending.NewMemoryStore()
		pendings = mem
		a.purge = jobs.StartPurge(mem)
	}

	/* 4) Services */
	tokens := auth.NewTokens(a.cfg.JWT.Secret, time.Duration(a.cfg.JWT.TTLHours)*time.Hour)
	courrier := mailer.New(a.cfg.SMTP.Host, a.cfg.SMTP.Port, a.cfg.SMTP.User, a.cfg.SMTP.Password, a.cfg.SMTP.From)
	users := repo.NewUserStore(a.db)
	orgs := repo.NewOrganisationStore(a.db)
	var m auth.Mailer
	if courrier != nil {
		m = courrier
	}
	authSvc := auth.NewService(users, pendings, tokens, m,
		time.Duration(a.cfg.OTP.TTLMinutes)*time.Minute, a.cfg.OTP.Digits)
	saver := uploads.NewSaver(a.cfg.Uploads.Dir, a.cfg.Uploads.MaxSizeMB)
	projetStore := projets.NewStore(a.db)
	aapStore := aap.NewStore(a.db)

	/* 5) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)
	// CORS enveloppe le routeur entier : mux n'exécute Use que sur une route
	// appariée, un préflight OPTIONS doit répondre même sans correspondance.
	a.Handler = middleware.CORS(a.cfg.CORS.Origin)(a.Router)

	/* 6) Health */
	health.RegisterRoutesWithDB(a.Router, a.db)

	/* 7) API */
	rl := middleware.NewRateLimiter(1, 5) // endpoints d'auth : 1 req/s, rafale 5 par IP
	auth.RegisterRoutes(a.Router, auth.NewHandler(authSvc), rl)
	projets.RegisterRoutes(a.Router, projets.NewHandler(projetStore, saver), tokens.Verify)
	aap.RegisterRoutes(a.Router, aap.NewHandler(aapStore), tokens.Verify)
	organisations.RegisterRoutes(a.Router, organisations.NewHandler(orgs), tokens.Verify)

	/* 8) Pièces jointes servies depuis le disque */
	a.Router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(saver.Dir()))))

	/* (optionnel) tracer les routes connues au démarrage */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Handler == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Timeouts stricts requis en production.
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second, // uploads multipart
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	if a.purge != nil {
		a.purge.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
