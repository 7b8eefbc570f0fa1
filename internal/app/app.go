package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/clients/gcp"
	"github.com/yungbote/mycoach-backend/internal/coaching"
	"github.com/yungbote/mycoach-backend/internal/coaching/prompts"
	"github.com/yungbote/mycoach-backend/internal/data/db"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	httpx "github.com/yungbote/mycoach-backend/internal/http"
	httpH "github.com/yungbote/mycoach-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mycoach-backend/internal/http/middleware"
	"github.com/yungbote/mycoach-backend/internal/observability"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/realtime"
	realtimebus "github.com/yungbote/mycoach-backend/internal/realtime/bus"
	"github.com/yungbote/mycoach-backend/internal/services"
	"github.com/yungbote/mycoach-backend/internal/sources/garmin"
	"github.com/yungbote/mycoach-backend/internal/sources/hevy"
	"github.com/yungbote/mycoach-backend/internal/sources/merge"
)

const observabilityShutdownTimeout = 5 * time.Second

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Cfg    Config
	Server *httpx.Server

	Hub       *realtime.SSEHub
	Scheduler *services.Scheduler

	bus          realtime.Bus
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbSvc, err := db.NewDatabaseService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	gdb := dbSvc.DB()
	if err := db.AutoMigrateAll(gdb); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureInsightIndexes(gdb); err != nil {
		log.Sync()
		return nil, fmt.Errorf("insight indexes: %w", err)
	}

	// Repos
	userRepo := repos.NewUserRepo(gdb, log)
	profileRepo := repos.NewSportProfileRepo(gdb, log)
	snapshotRepo := repos.NewHealthSnapshotRepo(gdb, log)
	activityRepo := repos.NewActivityRepo(gdb, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(gdb, log)
	availabilityRepo := repos.NewAvailabilityRepo(gdb, log)
	mesocycleRepo := repos.NewMesocycleRepo(gdb, log)
	planRepo := repos.NewWeeklyPlanRepo(gdb, log)
	sessionRepo := repos.NewPlannedSessionRepo(gdb, log)
	insightRepo := repos.NewCoachingInsightRepo(gdb, log)
	promptLogRepo := repos.NewPromptLogRepo(gdb, log)
	configRepo := repos.NewDataSourceConfigRepo(gdb, log)
	syncRunRepo := repos.NewSyncRunRepo(gdb, log)

	// Services
	tokens, err := services.NewTokenService(log, cfg.APIToken, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init token service: %w", err)
	}
	sealer, err := services.NewCredentialSealer(log, cfg.CredentialsKey)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init credential sealer: %w", err)
	}
	llm, err := services.NewAnthropicClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init anthropic client: %w", err)
	}

	var cards services.PlanCardService
	if cfg.PlanCardFont != "" {
		cards, err = services.NewPlanCardService(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init plan card service: %w", err)
		}
	} else {
		log.Info("PLAN_CARD_FONT not set, plan card rendering disabled")
	}

	var bucket gcp.BucketService
	if cfg.ArchiveBucket != "" {
		bucket, err = gcp.NewBucketService(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init bucket service: %w", err)
		}
	} else {
		log.Info("ARCHIVE_BUCKET not set, import archiving disabled")
	}

	// Realtime
	hub := realtime.NewSSEHub(log)
	var bus realtime.Bus
	if cfg.RedisAddr != "" {
		bus, err = realtimebus.NewRedisBus(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
	}

	// Sources
	merger := merge.NewMerger(gdb, log, activityRepo)
	garminClient := garmin.NewHTTPClient(log)
	garminSource := garmin.NewSource(
		gdb, log, garminClient,
		configRepo, syncRunRepo, snapshotRepo, activityRepo,
		merger, sealer, hub,
	)
	hevyImporter := hevy.NewImporter(gdb, log, activityRepo, detailRepo)

	// Coaching
	prompts.RegisterAll()
	assembler := coaching.NewContextAssembler(
		log,
		snapshotRepo, activityRepo, detailRepo,
		availabilityRepo, mesocycleRepo, planRepo, sessionRepo,
		profileRepo,
	)
	engine := coaching.NewEngine(
		gdb, log, llm, assembler,
		insightRepo, promptLogRepo, planRepo, sessionRepo,
	)

	ownerID, err := resolveOwner(context.Background(), log, cfg, userRepo, configRepo, sealer)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	scheduler := services.NewScheduler(log, cfg.Scheduler, ownerID, garminSource, engine)

	// HTTP
	authMW := httpMW.NewAuthMiddleware(log, tokens, ownerID)
	router := httpx.RouterConfig{
		Log:            log,
		TracingEnabled: cfg.TracingEnabled,
		AuthMiddleware: authMW,

		AuthHandler:         httpH.NewAuthHandler(log, tokens),
		ActivityHandler:     httpH.NewActivityHandler(log, gdb, activityRepo, detailRepo),
		HealthHandler:       httpH.NewHealthHandler(log, snapshotRepo),
		SourcesHandler:      httpH.NewSourcesHandler(log, gdb, garminSource, hevyImporter, merger, configRepo, syncRunRepo, sealer, hub, bucket),
		CoachingHandler:     httpH.NewCoachingHandler(log, engine, insightRepo),
		ProfileHandler:      httpH.NewProfileHandler(log, profileRepo),
		PlanHandler:         httpH.NewPlanHandler(log, engine, planRepo, sessionRepo, cards),
		AvailabilityHandler: httpH.NewAvailabilityHandler(log, availabilityRepo),
		MesocycleHandler:    httpH.NewMesocycleHandler(log, mesocycleRepo),
		SystemHandler:       httpH.NewSystemHandler(log, gdb, cfg.Version, configRepo, insightRepo, promptLogRepo),
	}

	return &App{
		Log:       log,
		DB:        gdb,
		Cfg:       cfg,
		Server:    httpx.NewServer(router),
		Hub:       hub,
		Scheduler: scheduler,
		bus:       bus,
	}, nil
}

// resolveOwner returns the deployment's single user, creating the row on
// first start. Bootstrap Garmin credentials from the environment are sealed
// into the source config when none are stored yet.
func resolveOwner(
	ctx context.Context,
	log *logger.Logger,
	cfg Config,
	userRepo repos.UserRepo,
	configRepo repos.DataSourceConfigRepo,
	sealer services.CredentialSealer,
) (uuid.UUID, error) {
	owner, err := userRepo.First(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	if owner == nil {
		created, err := userRepo.Create(ctx, nil, []*types.User{{
			Name:  cfg.UserName,
			Email: cfg.UserEmail,
		}})
		if err != nil {
			return uuid.Nil, err
		}
		owner = created[0]
		log.Info("Created owner user", "email", owner.Email)
	}

	if cfg.GarminEmail != "" && cfg.GarminPassword != "" {
		existing, err := configRepo.GetByType(ctx, nil, owner.ID, types.SourceGarmin)
		if err != nil {
			return uuid.Nil, err
		}
		if existing == nil || existing.CredentialsEncrypted == "" {
			sealed, err := sealer.Seal(cfg.GarminEmail, cfg.GarminPassword)
			if err != nil {
				return uuid.Nil, err
			}
			row := existing
			if row == nil {
				row = &types.DataSourceConfig{
					UserID:     owner.ID,
					SourceType: types.SourceGarmin,
					Enabled:    true,
				}
			}
			row.CredentialsEncrypted = sealed
			if _, err := configRepo.Upsert(ctx, nil, row); err != nil {
				return uuid.Nil, err
			}
			log.Info("Sealed bootstrap Garmin credentials")
		}
	}

	return owner.ID, nil
}

// Start launches background work: the tracing provider, the realtime bus
// forwarder and the daily scheduler.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: "mycoach-backend",
		Version:     a.Cfg.Version,
	})

	if a.bus != nil {
		if err := a.Hub.AttachBus(ctx, a.bus); err != nil {
			a.Log.Warn("Redis bus attach failed, falling back to local broadcast", "error", err)
		}
	}

	a.Scheduler.Start(ctx)
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := fmt.Sprintf("%s:%s", a.Cfg.HTTPAddr, a.Cfg.HTTPPort)
	a.Log.Info("Starting HTTP server", "addr", addr)
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.Log.Warn("Bus close failed", "error", err)
		}
		a.bus = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
