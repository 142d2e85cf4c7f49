package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/filesource"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	artifacts  ports.ArtifactStore
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, artifacts ports.ArtifactStore, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		artifacts:  artifacts,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateReconcileOrderCommandHandler() commands.ReconcileOrderCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAdjustStockCommandHandler() commands.AdjustStockCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdjustStockCommandHandler(f)
}

func (c *CompositionRoot) CreateSubmitImportJobCommandHandler() commands.SubmitImportJobCommandHandler {
	return commands.NewSubmitImportJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateProcessQueuedJobCommandHandler() commands.ProcessQueuedJobCommandHandler {
	reconciler := c.CreateReconcileOrderCommandHandler()
	adjuster := c.CreateAdjustStockCommandHandler()

	return commands.NewProcessQueuedJobCommandHandler(
		c.jobUoWFactory(),
		reconciler,
		adjuster,
		filesource.NewCSVOrderSource(),
		filesource.NewCSVAdjustmentSource(),
		c.artifacts,
		commands.WorkerConfig{
			ProcessingTimeout: c.config.WorkerProcessingTimeout,
			TickBudget:        c.config.WorkerTickBudget,
			MaxRetries:        c.config.WorkerMaxRetries,
		},
		c.logger.With("component", "import_worker"),
	)
}

func (c *CompositionRoot) CreateGetJobStatusQueryHandler() queries.GetJobStatusQueryHandler {
	return queries.NewGetJobStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() queries.GetOpenOrdersQueryHandler {
	return queries.NewGetOpenOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

type FuncReconcileUoWFactory func() commands.ReconcileUoW

func (f FuncReconcileUoWFactory) Create() commands.ReconcileUoW {
	return f()
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}
