package movesource

import (
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
)

// BackendModels maps the selectable model names to the hosted model ids.
var BackendModels = map[string]string{
	"LLaMA":    "meta-llama/llama-4-scout-17b-16e-instruct",
	"Mistral":  "mistral-saba-24b",
	"DeepSeek": "deepseek-r1-distill-llama-70b",
}

type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Registry hands out the move source for a model name. Unknown names and a
// missing API key both resolve to the random source.
type Registry struct {
	random  *Random
	sources map[string]MoveSource
}

func NewRegistry(logger *slog.Logger, conf RemoteConfig, random *Random) *Registry {
	log := logger.With("component", "movesource")

	registry := &Registry{
		random:  random,
		sources: make(map[string]MoveSource, len(BackendModels)),
	}

	if conf.APIKey == "" {
		log.Warn("no API key configured, AI seats will play random moves")
		return registry
	}

	clientConf := openai.DefaultConfig(conf.APIKey)
	if conf.BaseURL != "" {
		clientConf.BaseURL = conf.BaseURL
	}
	client := openai.NewClientWithConfig(clientConf)

	for name, modelID := range BackendModels {
		registry.sources[name] = NewRemoteTextModel(log, client, modelID, conf.Timeout, random)
	}

	return registry
}

func (that *Registry) For(model string) MoveSource {
	if source, ok := that.sources[model]; ok {
		return source
	}

	return that.random
}
