package providers

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/darmiel/mcauth/internal/config"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/providers/mojang"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

// MojangConfig is the provider specific part of a "mojang" provider entry.
type MojangConfig struct {
	// ServerURL of the Yggdrasil authentication server.
	ServerURL string `mapstructure:"server_url"`
	// Timeout of a single HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
	// OperationTimeout bounds a whole operation.
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

func decodeProviderConfig(cfg config.ProviderConfig, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return fmt.Errorf("creating decoder for provider '%s': %w", cfg.Type, err)
	}
	raw := make(map[string]any, len(cfg.Config))
	for k, v := range cfg.Config {
		if k != "type" {
			raw[k] = v
		}
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decoding config for provider '%s': %w", cfg.Type, err)
	}
	return nil
}

// BuildRegistry creates one account type per configured provider.
func BuildRegistry(cfgs []config.ProviderConfig, auditor core.Auditor) (*Registry, error) {
	registry, _ := NewRegistry()
	for _, cfg := range cfgs {
		switch cfg.Type {
		case mojang.TypeID:
			var conf MojangConfig
			if err := decodeProviderConfig(cfg, &conf); err != nil {
				return nil, err
			}
			opts := []yggdrasil.Option{yggdrasil.WithProvider(mojang.TypeID)}
			if conf.Timeout > 0 {
				opts = append(opts, yggdrasil.WithTimeout(conf.Timeout))
			}
			client := yggdrasil.New(conf.ServerURL, opts...)
			t := mojang.NewType(client,
				mojang.WithAuditor(auditor),
				mojang.WithOperationTimeout(conf.OperationTimeout),
			)
			if err := registry.Register(t); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
		}
	}
	return registry, nil
}
