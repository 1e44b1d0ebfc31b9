// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

import "time"

// FeatureMode selects, at build/configuration time, whether a wire-format
// section is compiled out, always present, or present per-instance at
// runtime.
type FeatureMode uint8

const (
	// Disabled compiles the field out: it is never present on the wire
	// and the per-instance runtime flag is ignored.
	Disabled FeatureMode = iota
	// Always means the field is always present on the wire; the
	// per-instance runtime flag is ignored.
	Always
	// Dynamic means the field is present on the wire iff the instance's
	// runtime flag for it is set.
	Dynamic
)

// Feature names a single gated wire-format section.
type Feature uint8

const (
	FeatureAddr Feature = iota
	FeatureAddrExtended
	FeatureFlags
	FeatureCmd
	FeatureCRC
	FeatureCRC32
	featureCount
)

// Config is the build-time configuration shared by every Packet created
// with it: which sections exist on the wire at all, and the numeric
// limits that bound them. The feature modes cannot be changed after
// NewConfig returns, and New copies the Config into the Packet;
// per-instance Dynamic features are toggled on the Packet itself via
// SetFeatureEnabled.
type Config struct {
	modes [featureCount]FeatureMode

	// MaxDataLen bounds the decoded payload buffer. Default 256.
	MaxDataLen int
	// AddrBroadcast is the destination-address sentinel recognized by
	// IsBroadcast. Default 0xFF.
	AddrBroadcast uint32
	// ProcessTimeout is the idle window after which Process resets a
	// frame stuck mid-parse. Default 100ms.
	ProcessTimeout time.Duration
}

// defaultConfig matches spec defaults: every dynamic feature on, compact
// addressing, CRC-8.
func defaultConfig() Config {
	var c Config
	for i := range c.modes {
		c.modes[i] = Dynamic
	}
	c.modes[FeatureAddrExtended] = Disabled
	c.modes[FeatureCRC32] = Disabled
	c.MaxDataLen = 256
	c.AddrBroadcast = 0xFF
	c.ProcessTimeout = 100 * time.Millisecond
	return c
}

// ConfigOption configures a Config built by NewConfig.
type ConfigOption func(*Config)

// NewConfig builds a build-time Config from functional options, starting
// from the spec defaults (every dynamic feature enabled, compact
// addressing, CRC-8, MaxDataLen 256, broadcast 0xFF, 100ms timeout).
func NewConfig(opts ...ConfigOption) Config {
	c := defaultConfig()
	for _, fn := range opts {
		fn(&c)
	}
	return c
}

// WithFeatureMode sets the build-time mode for a single feature.
func WithFeatureMode(f Feature, mode FeatureMode) ConfigOption {
	return func(c *Config) { c.modes[f] = mode }
}

// WithAddressing configures USE_ADDR and ADDR_EXTENDED together.
func WithAddressing(mode FeatureMode, extended FeatureMode) ConfigOption {
	return func(c *Config) {
		c.modes[FeatureAddr] = mode
		c.modes[FeatureAddrExtended] = extended
	}
}

// WithFlags configures USE_FLAGS.
func WithFlags(mode FeatureMode) ConfigOption {
	return func(c *Config) { c.modes[FeatureFlags] = mode }
}

// WithCmd configures USE_CMD.
func WithCmd(mode FeatureMode) ConfigOption {
	return func(c *Config) { c.modes[FeatureCmd] = mode }
}

// WithCRC configures USE_CRC and CRC32 together: crc32=false selects
// CRC-8 (the default), crc32=true selects CRC-32.
func WithCRC(mode FeatureMode, crc32 bool) ConfigOption {
	return func(c *Config) {
		c.modes[FeatureCRC] = mode
		if crc32 {
			c.modes[FeatureCRC32] = mode
		} else {
			c.modes[FeatureCRC32] = Disabled
		}
	}
}

// WithMaxDataLen overrides the payload buffer capacity (default 256).
func WithMaxDataLen(n int) ConfigOption {
	return func(c *Config) { c.MaxDataLen = n }
}

// WithBroadcastAddr overrides the broadcast sentinel (default 0xFF).
func WithBroadcastAddr(addr uint32) ConfigOption {
	return func(c *Config) { c.AddrBroadcast = addr }
}

// WithProcessTimeout overrides the watchdog idle window (default 100ms).
func WithProcessTimeout(d time.Duration) ConfigOption {
	return func(c *Config) { c.ProcessTimeout = d }
}

// enabled reports whether feature f is present on the wire for an
// instance whose dynamic flag bits are given by flags.
func (c *Config) enabled(f Feature, flags uint32) bool {
	switch c.modes[f] {
	case Always:
		return true
	case Dynamic:
		return flags&(1<<uint(f)) != 0
	default:
		return false
	}
}
