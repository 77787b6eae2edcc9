package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/simonyos/reactchat/internal/agent"
	"github.com/simonyos/reactchat/internal/broadcast"
	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/facts"
	"github.com/simonyos/reactchat/internal/llm"
	"github.com/simonyos/reactchat/internal/logging"
	"github.com/simonyos/reactchat/internal/profiles"
	"github.com/simonyos/reactchat/internal/session"
	"github.com/simonyos/reactchat/internal/tools"
)

// appOptions tweaks buildApp per command.
type appOptions struct {
	// tee receives the transcript while a turn runs.
	tee io.Writer
	// quiet skips the NATS publisher.
	quiet bool
}

// app is everything a chat command needs.
type app struct {
	logger   *zap.Logger
	agent    *agent.Agent
	session  *session.Session
	registry *tools.Registry
	closers  []func() error
}

// Close releases the fact store, the publisher and the logger.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

// newLogger builds the file logger from the global flags.
func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{Path: logFileFlag, Debug: debugFlag})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

// buildApp wires config, providers, tools, agent and session.
func buildApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, config.ConfigPath())
	}

	providerName := strings.ToLower(firstNonEmpty(providerFlag, cfg.DefaultProvider, llm.ProviderOpenAI))
	apiKey, err := config.RequireAPIKey(providerName)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger}

	model := firstNonEmpty(modelFlag, cfg.DefaultModel)
	provider, err := llm.New(providerName, apiKey, model)
	if err != nil {
		a.Close()
		return nil, err
	}
	coder := provider
	if cfg.CodeModel != "" && cfg.CodeModel != model {
		if coder, err = llm.New(providerName, apiKey, cfg.CodeModel); err != nil {
			a.Close()
			return nil, err
		}
	}

	factsProvider, err := a.openFacts(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry, err := tools.NewDefaultRegistry(factsProvider, coder, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.registry = registry

	agentOpts := []agent.Option{
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithLogger(logger),
	}
	if profileFlag != "" {
		p, err := loadProfile(profileFlag, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		agentOpts = append(agentOpts, profileOptions(p)...)
		logger.Info("profile applied", zap.String("profile", p.Name), zap.String("file", p.FilePath))
	}
	if opts.tee != nil {
		agentOpts = append(agentOpts, agent.WithTranscriptTee(opts.tee))
	}
	a.agent, err = agent.New(provider, registry, agentOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher broadcast.Publisher = broadcast.Nop{}
	if !opts.quiet {
		publisher = a.openPublisher()
	}

	a.session = session.New(a.agent,
		session.WithPublisher(publisher),
		session.WithLogger(logger),
	)
	logger.Info("app ready",
		zap.String("provider", providerName),
		zap.String("model", provider.ModelName()),
		zap.String("code_model", coder.ModelName()),
		zap.String("session_id", a.session.ID()),
	)
	return a, nil
}

// openFacts picks the Search backend: a YAML file, then Redis, then the
// built-in table.
func (a *app) openFacts(ctx context.Context, cfg *config.Config) (facts.Provider, error) {
	if path := firstNonEmpty(factsFlag, cfg.FactsFile); path != "" {
		table, err := facts.LoadYAML(path)
		if err != nil {
			return nil, err
		}
		a.logger.Info("facts loaded", zap.String("file", path), zap.Int("entries", len(table.Entries())))
		return table, nil
	}

	if url, _ := config.Value("redis_url"); url != "" {
		store, err := facts.DialRedis(ctx, url, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.logger.Info("facts backed by redis", zap.String("addr", url))
		return store, nil
	}

	return facts.Default(), nil
}

// openPublisher connects to NATS when a URL is configured. A server that
// cannot be reached disables publishing rather than the chat.
func (a *app) openPublisher() broadcast.Publisher {
	url, _ := config.Value("nats_url")
	if url == "" {
		return broadcast.Nop{}
	}
	pub, err := broadcast.Dial(broadcast.DefaultConfig(url), a.logger)
	if err != nil {
		a.logger.Warn("turn publishing disabled", zap.String("url", url), zap.Error(err))
		return broadcast.Nop{}
	}
	a.closers = append(a.closers, pub.Close)
	return pub
}

// loadProfile finds name in the global and project profile directories.
func loadProfile(name string, logger *zap.Logger) (*profiles.Profile, error) {
	reg, err := profiles.NewLoader(profiles.DefaultPaths(config.Dir()), logger).Load()
	if err != nil {
		return nil, err
	}
	p, err := reg.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	return p, nil
}

// profileOptions turns a profile into agent options. Zero fields keep the
// configured defaults.
func profileOptions(p *profiles.Profile) []agent.Option {
	opts := []agent.Option{agent.WithCustomRules(p.Rules)}
	if p.MaxIterations > 0 {
		opts = append(opts, agent.WithMaxIterations(p.MaxIterations))
	}
	if p.Temperature != nil {
		opts = append(opts, agent.WithTemperature(*p.Temperature))
	}
	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
