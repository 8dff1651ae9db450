package embedding

import "time"

// ModelConfig is a persisted provider configuration. Configurations are
// created and edited by configuration management; the matching core reads
// them through the Registry and never mutates them.
//
// At most one configuration may be the default at any time. The store
// enforces this when saving, not the callers.
type ModelConfig struct {
	id           int64
	name         string
	kind         Kind
	dimension    int
	endpoint     string
	encryptedKey string
	params       map[string]string
	active       bool
	isDefault    bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewModelConfig creates a configuration for a new provider setup.
func NewModelConfig(name string, kind Kind, dimension int, endpoint string, encryptedKey string, params map[string]string) ModelConfig {
	now := time.Now().UTC()
	return ModelConfig{
		name:         name,
		kind:         kind,
		dimension:    dimension,
		endpoint:     endpoint,
		encryptedKey: encryptedKey,
		params:       copyParams(params),
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}
}

// ReconstructModelConfig rebuilds a configuration from persistence.
func ReconstructModelConfig(
	id int64,
	name string,
	kind Kind,
	dimension int,
	endpoint string,
	encryptedKey string,
	params map[string]string,
	active bool,
	isDefault bool,
	createdAt, updatedAt time.Time,
) ModelConfig {
	return ModelConfig{
		id:           id,
		name:         name,
		kind:         kind,
		dimension:    dimension,
		endpoint:     endpoint,
		encryptedKey: encryptedKey,
		params:       copyParams(params),
		active:       active,
		isDefault:    isDefault,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the configuration ID.
func (c ModelConfig) ID() int64 { return c.id }

// Name returns the unique configuration name (the model name).
func (c ModelConfig) Name() string { return c.name }

// Kind returns the provider kind.
func (c ModelConfig) Kind() Kind { return c.kind }

// Dimension returns the declared vector dimension.
func (c ModelConfig) Dimension() int { return c.dimension }

// Endpoint returns the base endpoint URL, empty for local models.
func (c ModelConfig) Endpoint() string { return c.endpoint }

// EncryptedKey returns the encrypted credential. Decryption happens only in
// the Registry, on read.
func (c ModelConfig) EncryptedKey() string { return c.encryptedKey }

// Params returns a copy of the free-form provider parameters.
func (c ModelConfig) Params() map[string]string { return copyParams(c.params) }

// Param returns a single parameter value.
func (c ModelConfig) Param(key string) (string, bool) {
	v, ok := c.params[key]
	return v, ok
}

// Active reports whether the configuration is usable.
func (c ModelConfig) Active() bool { return c.active }

// IsDefault reports whether this is the default configuration.
func (c ModelConfig) IsDefault() bool { return c.isDefault }

// CreatedAt returns the creation time.
func (c ModelConfig) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last update time.
func (c ModelConfig) UpdatedAt() time.Time { return c.updatedAt }

func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return cp
}
