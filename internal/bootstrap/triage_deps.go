// Package bootstrap wires configuration, adapters and services together.
package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/adapter/out/cache"
	"github.com/imaglide/eisenhower-triage/adapter/out/graph"
	"github.com/imaglide/eisenhower-triage/adapter/out/persistence"
	"github.com/imaglide/eisenhower-triage/config"
	"github.com/imaglide/eisenhower-triage/core/agent/llm"
	"github.com/imaglide/eisenhower-triage/core/port/out"
	"github.com/imaglide/eisenhower-triage/core/service/triage"
)

// Dependencies holds every wired component of the application.
type Dependencies struct {
	Config *config.Config
	Log    zerolog.Logger

	DB    *pgxpool.Pool
	SQLDB *sqlx.DB
	Redis *redis.Client
	Neo4j neo4j.DriverWithContext

	// Stores
	SenderProfiles out.SenderProfileStore
	Embeddings     out.EmbeddingStore
	Results        out.TriageResultStore

	// LLM
	LLMClient *llm.Client
	Caller    *llm.Caller

	// Service
	TriageService *triage.Service

	cleanups []func()
}

// NewDependencies wires the full dependency graph from configuration.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Log: log}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres pool: %w", err)
	}
	deps.DB = pool
	deps.cleanups = append(deps.cleanups, pool.Close)

	sqlDB, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	deps.SQLDB = sqlDB
	deps.cleanups = append(deps.cleanups, func() { _ = sqlDB.Close() })

	// Stores
	var profiles out.SenderProfileStore = persistence.NewSenderProfileAdapter(sqlDB)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		deps.Redis = rdb
		deps.cleanups = append(deps.cleanups, func() { _ = rdb.Close() })
		profiles = cache.NewProfileCache(profiles, rdb, cfg.ProfileCacheTTL, log)
	}
	deps.SenderProfiles = profiles
	deps.Results = persistence.NewTriageResultAdapter(sqlDB)

	embeddings, err := deps.newEmbeddingStore(ctx, cfg, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Embeddings = embeddings

	// LLM
	deps.LLMClient = llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIAPIKey,
		Model:          cfg.LLMModel,
		EmbeddingModel: cfg.EmbeddingModel,
	}, log)
	deps.Caller = llm.NewCaller(deps.LLMClient, cfg.LLMMaxRetries, cfg.LLMMaxTokens, float32(cfg.LLMTemperature), log)

	// Strategies in registration order; the order also breaks consensus ties.
	trunc := triage.NewTruncator(log)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	strategies := []triage.Strategy{
		triage.NewContentStrategy(deps.Caller, trunc, log),
		triage.NewContextualStrategy(deps.Caller, trunc, deps.SenderProfiles, log),
		triage.NewEmbeddingStrategy(deps.Caller, trunc, deps.LLMClient, deps.Embeddings, deps.Results, rnd, log),
		triage.NewOutcomesStrategy(deps.Caller, trunc, deps.Results, log),
	}
	deps.TriageService = triage.NewService(strategies, deps.Results, log)

	return deps, nil
}

func (d *Dependencies) newEmbeddingStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (out.EmbeddingStore, error) {
	if cfg.EmbeddingBackend != "neo4j" {
		return persistence.NewEmbeddingAdapter(d.DB), nil
	}

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL,
		neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}
	d.Neo4j = driver
	d.cleanups = append(d.cleanups, func() { _ = driver.Close(context.Background()) })

	adapter := graph.NewVectorAdapter(driver, "neo4j")
	if err := adapter.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure neo4j indexes: %w", err)
	}
	log.Info().Msg("using neo4j embedding store")
	return adapter, nil
}

// Close releases every held resource in reverse acquisition order.
func (d *Dependencies) Close() {
	for i := len(d.cleanups) - 1; i >= 0; i-- {
		d.cleanups[i]()
	}
	d.cleanups = nil
}
