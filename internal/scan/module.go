// Module setup and route registration for the scan bounded context.
package scan

import (
	"context"

	apphttp "github.com/msoyaph/nexscout-sub003/internal/http"
	"github.com/msoyaph/nexscout-sub003/internal/scan/agent"
	"github.com/msoyaph/nexscout-sub003/internal/scan/handler"
	"github.com/msoyaph/nexscout-sub003/internal/scan/learning"
	"github.com/msoyaph/nexscout-sub003/internal/scan/normalize"
	"github.com/msoyaph/nexscout-sub003/internal/scan/parser"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/internal/scan/service"
	"github.com/msoyaph/nexscout-sub003/platform/ai"
	"github.com/msoyaph/nexscout-sub003/platform/config"
	"github.com/msoyaph/nexscout-sub003/platform/events"
	"github.com/msoyaph/nexscout-sub003/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the scan bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the scan service and its HTTP handler. The launcher decides
// where scan runs execute (asynq queue or an in-process goroutine), so the
// composition root injects it.
func NewModule(pool *pgxpool.Pool, bus events.Bus, launcher service.Launcher, archive service.CaptureArchiver, log *logger.Logger) *Module {
	repo := repository.New(pool)

	svc := service.New(service.Stores{
		Sources:   repo,
		Queue:     repo,
		Snapshots: repo,
		Entities:  repo,
		Intel:     repo,
		History:   repo,
		Learning:  repo,
	}, launcher, archive, bus, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scan"
}

// Service returns the scan service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts scan and prospect routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	scans := ctx.V1.Group("/scans")
	scans.Use(ctx.ScanRateLimiter.RateLimit())
	m.handler.RegisterScanRoutes(scans)

	prospects := ctx.V1.Group("/prospects")
	m.handler.RegisterProspectRoutes(prospects)

	profile := ctx.V1.Group("/profile")
	m.handler.RegisterProfileRoutes(profile)
}

// BuildRunner assembles the full pipeline behind a queue-settling runner.
// Both the API binary (in-process fallback) and the worker binary use it.
func BuildRunner(ctx context.Context, pool *pgxpool.Pool, bus events.Bus, cfg *config.Config, log *logger.Logger) (*Runner, error) {
	repo := repository.New(pool)

	aliases := parser.DefaultAliases()
	if path := cfg.GetParserAliasPath(); path != "" {
		loaded, err := parser.LoadAliases(path)
		if err != nil {
			log.Warn("parser alias overrides not loaded, using defaults", "path", path, "error", err)
		}
		aliases = loaded
	}

	tiers, err := buildTiers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	intelAgent := agent.New(tiers, repo, repo, cfg.GetAgentVersion(), log)
	loop := learning.New(repo, log)

	machine := NewMachine(MachineStores{
		Sources:   repo,
		Queue:     repo,
		Snapshots: repo,
		Entities:  repo,
		Intel:     repo,
		History:   repo,
	}, parser.NewAgent(aliases), normalize.New(cfg.GetDefaultPhoneRegion()), intelAgent, loop, bus, log, cfg.GetSourceExcerptLimit())

	return NewRunner(machine, repo, log), nil
}

// buildTiers constructs the ordered model ladder for the configured provider.
// The premium tier is gated on wallet energy, the standard tier is always
// eligible so every scan gets at least one model attempt.
func buildTiers(ctx context.Context, cfg config.AIConfig) ([]agent.Tier, error) {
	var premium, standard ai.TextModel

	switch cfg.GetAIProvider() {
	case "moonshot":
		premium = ai.NewMoonshotModel(ai.MoonshotConfig{APIKey: cfg.GetMoonshotAPIKey(), Model: cfg.GetPremiumModel()})
		standard = ai.NewMoonshotModel(ai.MoonshotConfig{APIKey: cfg.GetMoonshotAPIKey(), Model: cfg.GetStandardModel()})
	default:
		var err error
		premium, err = ai.NewGeminiModel(ctx, cfg.GetGeminiAPIKey(), cfg.GetPremiumModel())
		if err != nil {
			return nil, err
		}
		standard, err = ai.NewGeminiModel(ctx, cfg.GetGeminiAPIKey(), cfg.GetStandardModel())
		if err != nil {
			return nil, err
		}
	}

	return []agent.Tier{
		{Model: premium, MinEnergy: cfg.GetPremiumEnergyThreshold()},
		{Model: standard, MinEnergy: 0},
	}, nil
}
