// Package container provides dependency injection for application services.
package container

import (
	"github.com/HearthApp/hearth-go/internal/application/services"
	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	cacheinterfaces "github.com/HearthApp/hearth-go/internal/infrastructure/caching/interfaces"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/manager"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
	analyticsrepo "github.com/HearthApp/hearth-go/internal/infrastructure/persistence/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/database"
	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/directory"
)

// Container holds all application dependencies wired at startup.
type Container struct {
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	DB          *database.DB

	CacheManager cacheinterfaces.ReportCache

	UserDirectory    analytics.UserDirectory
	InteractionStore analytics.InteractionStore

	StageService        *services.LifecycleAnalyticsService
	SpaceService        *services.SpaceAnalyticsService
	TimeToValueService  *services.TimeToValueService
	ResurrectionService *services.ResurrectionService
	ReportService       *services.LifecycleReportService
	AuthService         *services.AuthService
}

// New builds the full dependency graph from an open database connection.
func New(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	cacheManager := manager.NewManager(logger)

	userDirectory := directory.NewSQLUserDirectory(db, logger)
	interactionStore := analyticsrepo.NewSQLInteractionStore(db, logger)

	stageService := services.NewLifecycleAnalyticsService(logger, perfTracker)
	spaceService := services.NewSpaceAnalyticsService(logger, perfTracker)
	timeToValueService := services.NewTimeToValueService(logger, perfTracker)
	resurrectionService := services.NewResurrectionService(logger, perfTracker)

	reportService := services.NewLifecycleReportService(
		userDirectory,
		interactionStore,
		stageService,
		spaceService,
		timeToValueService,
		resurrectionService,
		cacheManager,
		logger,
		perfTracker,
	)

	authService := services.NewAuthService(logger, perfTracker)

	return &Container{
		Logger:              logger,
		PerfTracker:         perfTracker,
		DB:                  db,
		CacheManager:        cacheManager,
		UserDirectory:       userDirectory,
		InteractionStore:    interactionStore,
		StageService:        stageService,
		SpaceService:        spaceService,
		TimeToValueService:  timeToValueService,
		ResurrectionService: resurrectionService,
		ReportService:       reportService,
		AuthService:         authService,
	}
}
