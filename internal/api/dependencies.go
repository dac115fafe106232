package api

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"pine-rivers/rangekiosk/internal/checkin"
	"pine-rivers/rangekiosk/internal/common"
	"pine-rivers/rangekiosk/internal/config"
	"pine-rivers/rangekiosk/internal/db"
	"pine-rivers/rangekiosk/internal/db/repositories"
	"pine-rivers/rangekiosk/internal/logging"
	"pine-rivers/rangekiosk/internal/metrics"
	"pine-rivers/rangekiosk/internal/providers"
	"pine-rivers/rangekiosk/internal/roster"
	"pine-rivers/rangekiosk/internal/scan"
	"pine-rivers/rangekiosk/internal/services"
	"pine-rivers/rangekiosk/internal/session"
)

type Repositories struct {
	Mirror *repositories.CheckinMirrorRepo
}

type Services struct {
	Cache      common.CacheInterface
	RosterSync *services.RosterSyncService
	QRExport   *services.QRExportService
	Mailer     *services.MailerService
	Report     *services.ReportService
}

// Dependencies carries every wired collaborator. All kiosk state lives here
// rather than in package globals so tests can build isolated instances.
type Dependencies struct {
	Config  *config.Config
	Metrics *metrics.MetricsRegistry

	RosterDB *sqlx.DB
	MirrorDB *gorm.DB

	Roster      *roster.Store
	Lock        *session.Lock
	Tokens      *session.TokenIssuer
	Accumulator *scan.Accumulator
	Workflow    *checkin.Workflow

	Repo     *Repositories
	Services *Services
}

// InitDependencies wires the full dependency graph from configuration
func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	// Roster source is optional: without it the kiosk runs on manual entry
	// and whatever snapshot a later sync provides
	var rosterDB *sqlx.DB
	var provider providers.MemberProvider
	if cfg.RosterDSN != "" {
		conn, err := db.ConnectRoster(cfg.RosterDSN)
		if err != nil {
			return nil, err
		}
		rosterDB = conn
		provider = providers.NewPostgresMemberProvider(conn)
	} else {
		logging.Warn("No roster data source configured; sync is disabled")
	}

	mirrorDB, err := db.ConnectMirror(cfg.MirrorDriver, cfg.MirrorDSN)
	if err != nil {
		return nil, err
	}

	var cacheSvc common.CacheInterface
	if cfg.RedisHost != "" {
		redisSvc, err := common.NewRedisCacheService(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass)
		if err != nil {
			return nil, err
		}
		cacheSvc = redisSvc
		logging.Info("Using Redis cache", "host", cfg.RedisHost)
	} else {
		cacheSvc = common.NewCacheService(60000, 600)
	}

	store := roster.NewStore()
	lock := session.NewLock(cfg.UnlockPIN, cfg.RelockAfter)
	tokens := session.NewTokenIssuer(cfg.TokenSecret)
	accumulator := scan.NewAccumulator(scan.DefaultIdleGap)

	mirrorRepo := repositories.NewCheckinMirrorRepo(mirrorDB)

	mailerSvc := services.NewMailerService(services.MailerConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		Club:     cfg.ClubName,
		Location: cfg.RangeLocation,
	}, cfg.ExportsDir)

	ledger := checkin.NewLedger()
	workflow := checkin.NewWorkflow(lock, store, ledger, mirrorRepo, mailerSvc)

	deps := &Dependencies{
		Config:      cfg,
		Metrics:     metricsReg,
		RosterDB:    rosterDB,
		MirrorDB:    mirrorDB,
		Roster:      store,
		Lock:        lock,
		Tokens:      tokens,
		Accumulator: accumulator,
		Workflow:    workflow,
		Repo: &Repositories{
			Mirror: mirrorRepo,
		},
		Services: &Services{
			Cache:      cacheSvc,
			RosterSync: services.NewRosterSyncService(provider, store, cacheSvc, metricsReg),
			QRExport:   services.NewQRExportService(cfg.ExportsDir),
			Mailer:     mailerSvc,
			Report:     services.NewReportService(mailerSvc, cfg.ExportsDir, cfg.ClubName),
		},
	}

	return deps, nil
}
