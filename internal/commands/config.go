package commands

import (
	"strings"

	"github.com/spf13/viper"
)

// ToolConfig holds CLI preferences
type ToolConfig struct {
	Verbose bool
	Indent  int
}

// LoadToolConfig reads optional tool preferences from nvmlayout.yml in the
// working directory, with NVMLAYOUT_* environment variable overrides
// (e.g. NVMLAYOUT_OUTPUT_INDENT=4). A missing config file is not an error.
func LoadToolConfig() *ToolConfig {
	v := viper.New()
	v.SetConfigName("nvmlayout")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("NVMLAYOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("output.verbose", false)
	v.SetDefault("output.indent", 2)

	// The config file is optional; defaults and env vars still apply.
	_ = v.ReadInConfig()

	cfg := &ToolConfig{
		Verbose: v.GetBool("output.verbose"),
		Indent:  v.GetInt("output.indent"),
	}
	if cfg.Indent < 1 {
		cfg.Indent = 2
	}
	return cfg
}
