package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/agent"
	"github.com/sells-group/analyst-cli/internal/retrieval"
	"github.com/sells-group/analyst-cli/internal/store"
	"github.com/sells-group/analyst-cli/internal/warehouse"
	anthropicpkg "github.com/sells-group/analyst-cli/pkg/anthropic"
)

// agentEnv holds the initialized collaborators needed by the ask/batch/serve
// commands.
type agentEnv struct {
	Store    store.Store
	Workflow *agent.Workflow
	runner   warehouse.Runner
}

// Close releases resources held by the agent environment.
func (e *agentEnv) Close() {
	if e.runner != nil {
		_ = e.runner.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.Path
		if dsn == "" {
			dsn = "analyst.sqlite"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initAgent sets up the store, the warehouse runner, the retrieval index,
// and the Claude-backed workflow. Callers should defer env.Close().
func initAgent(ctx context.Context) (*agentEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	runner, err := warehouse.NewSQLite(cfg.Warehouse.Path)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var manifest *retrieval.Manifest
	if cfg.Docs.Manifest != "" {
		manifest, err = retrieval.LoadManifest(cfg.Docs.Manifest)
		if err != nil {
			zap.L().Warn("corpus manifest not loaded, indexing all docs", zap.Error(err))
			manifest = nil
		}
	}
	index, err := retrieval.NewIndex(cfg.Docs.Dir, manifest, cfg.Docs.ChunkChars)
	if err != nil {
		_ = runner.Close()
		_ = st.Close()
		return nil, err
	}

	ai := anthropicpkg.NewRateLimited(
		anthropicpkg.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.RequestsPerSecond,
		cfg.Anthropic.Burst,
	)

	wf := agent.NewWorkflow(
		agent.NewRouter(ai, cfg.Anthropic.RouterModel),
		agent.NewGenerator(ai, cfg.Anthropic.GeneratorModel, cfg.Anthropic.MaxTokens),
		agent.NewSynthesizer(ai, cfg.Anthropic.SynthesizerModel, cfg.Anthropic.MaxTokens),
		runner,
		index,
		cfg.Docs.TopK,
	)
	if err := wf.Prime(ctx); err != nil {
		_ = runner.Close()
		_ = st.Close()
		return nil, err
	}

	return &agentEnv{Store: st, Workflow: wf, runner: runner}, nil
}
