package pubsubtrie

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultPublishTimeout is the publish timeout set by DefaultConfig.
const DefaultPublishTimeout = 500 * time.Millisecond

// DefaultBufferSize is the AsyncSubscriber buffer size used by DefaultConfig.
const DefaultBufferSize = 16

// DeliveryConfig controls how an AsyncSubscriber queues payloads.
type DeliveryConfig struct {
	// BufferSize is the number of payloads queued before Receive has to wait
	// or drop.
	BufferSize int `mapstructure:"buffer_size"`

	// AllowDropping drops a payload immediately when the buffer is full.
	AllowDropping bool `mapstructure:"allow_dropping"`

	// PublishTimeout bounds how long Receive waits for buffer space when
	// AllowDropping is false. Zero waits until the subscriber is closed.
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// Config is the serializable form of broker settings.
type Config struct {
	UseCache        bool           `mapstructure:"use_cache"`
	PruneEmptyNodes bool           `mapstructure:"prune_empty_nodes"`
	Delivery        DeliveryConfig `mapstructure:"delivery"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		UseCache: true,
		Delivery: DeliveryConfig{
			BufferSize:     DefaultBufferSize,
			PublishTimeout: DefaultPublishTimeout,
		},
	}
}

// LoadConfig decodes the section under key from v over DefaultConfig, so
// keys that are not set keep their default. An empty key decodes the whole
// of v.
func LoadConfig(v *viper.Viper, key string) (Config, error) {
	cfg := DefaultConfig()

	var err error
	if key == "" {
		err = v.Unmarshal(&cfg)
	} else {
		err = v.UnmarshalKey(key, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("pubsubtrie: decode config %q: %w", key, err)
	}
	if cfg.Delivery.BufferSize < 0 {
		return Config{}, fmt.Errorf("pubsubtrie: delivery.buffer_size must not be negative, got %d", cfg.Delivery.BufferSize)
	}
	return cfg, nil
}

// NewFromConfig creates a Broker from cfg. Options are applied after the
// settings taken from cfg.
func NewFromConfig(cfg Config, opts ...Option) *Broker {
	if cfg.PruneEmptyNodes {
		opts = append([]Option{WithPruneEmptyNodes()}, opts...)
	}
	return New(cfg.UseCache, opts...)
}
