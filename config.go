package mucgly

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig is the on-disk shape of an optional TOML config file
// overriding Config's defaults. Grounded on containers/podman's direct use
// of github.com/BurntSushi/toml for its own layered configuration
// (pkg/util/utils.go), and on the teacher's getConfigDir/loadCLIConfig
// graceful-fallback idiom (cmd/paw/main.go) — a missing file is not an
// error and the defaults are used; a malformed file is reported to the
// caller (cmd/mucgly warns and keeps the defaults).
type FileConfig struct {
	Debug         bool   `toml:"debug"`
	FlushEachByte bool   `toml:"flush_each_byte"`
	HookBeg       string `toml:"hookbeg"`
	HookEnd       string `toml:"hookend"`
	HookEsc       string `toml:"hookesc"`
}

// LoadConfigFile reads path as TOML and applies any set fields on top of
// base. A missing file returns base unchanged and a nil error; a malformed
// file returns the parse error so the caller (cmd/mucgly) can decide whether
// to warn or abort.
func LoadConfigFile(path string, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}

	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return base, err
	}

	cfg := *base
	cfg.Debug = cfg.Debug || fc.Debug
	cfg.FlushEachByte = cfg.FlushEachByte || fc.FlushEachByte
	if fc.HookBeg != "" {
		cfg.DefaultHookBeg = fc.HookBeg
	}
	if fc.HookEnd != "" {
		cfg.DefaultHookEnd = fc.HookEnd
	}
	if fc.HookEsc != "" {
		cfg.DefaultHookEsc = fc.HookEsc
	}

	return &cfg, nil
}
