package configloader

import "github.com/yaklabco/goyamllint/pkg/config"

// merge layers override on top of base. File settings follow the extends
// semantics of config.Config.Extend. CLI-only settings are taken from
// override when set; a false boolean cannot unset a true one.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Extend(override)
	if override.Extends == "" {
		result.Extends = base.Extends
	}

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	result.Strict = base.Strict || override.Strict
	result.NoWarnings = base.NoWarnings || override.NoWarnings
	result.Markdown = base.Markdown || override.Markdown
	result.DetectLanguage = base.DetectLanguage || override.DetectLanguage
	result.ListFiles = base.ListFiles || override.ListFiles

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
