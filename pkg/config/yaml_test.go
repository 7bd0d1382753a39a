package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies Rules map", func(t *testing.T) {
		t.Parallel()
		original := &config.Config{
			Rules: map[string]config.RuleConfig{
				"line-length": config.Enabled(map[string]any{"max": 80}).WithLevel(config.SeverityWarning),
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original.Rules, clone.Rules)

		clone.Rules["line-length"].Options["max"] = 120
		clone.Rules["truthy"] = config.Disabled()
		assert.Equal(t, 80, original.Rules["line-length"].Options["max"])
		assert.NotContains(t, original.Rules, "truthy")
	})

	t.Run("deep copies pattern lists", func(t *testing.T) {
		t.Parallel()
		original := &config.Config{
			YAMLFiles: config.Patterns{"*.yaml"},
			Ignore:    config.Patterns{"vendor/"},
		}

		clone := original.Clone()
		clone.YAMLFiles[0] = "changed"
		clone.Ignore[0] = "changed"
		assert.Equal(t, "*.yaml", original.YAMLFiles[0])
		assert.Equal(t, "vendor/", original.Ignore[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		t.Parallel()
		original := &config.Config{
			Format:     config.FormatParsable,
			Strict:     true,
			NoWarnings: true,
			Jobs:       4,
			Markdown:   true,
		}
		clone := original.Clone()
		assert.Equal(t, original, clone)
		assert.NotSame(t, original, clone)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("rule entries use yamllint shapes", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			Extends: "relaxed",
			Rules: map[string]config.RuleConfig{
				"truthy":      config.Disabled(),
				"comments":    config.Enabled(nil),
				"line-length": config.Enabled(map[string]any{"max": 100}),
			},
		}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, "extends: relaxed")
		assert.Contains(t, out, "truthy: disable")
		assert.Contains(t, out, "comments: enable")
		assert.Contains(t, out, "line-length:\n    max: 100")
		assert.NotContains(t, out, "format")
	})

	t.Run("round trips through FromYAML", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			Extends: "default",
			Ignore:  config.Patterns{"vendor/"},
			Rules: map[string]config.RuleConfig{
				"line-length": config.Enabled(map[string]any{"max": 100}).WithLevel(config.SeverityWarning),
			},
		}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		got, err := config.FromYAML(data)
		require.NoError(t, err)
		if diff := cmp.Diff(cfg, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses yamllint configuration", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML([]byte(`
extends: relaxed
ignore: |
  vendor/
  *.gen.yaml
yaml-files:
  - '*.yaml'
rules:
  document-start: disable
  comments: enable
  line-length:
    max: 120
    level: warning
    ignore: [tests/]
`))
		require.NoError(t, err)

		assert.Equal(t, "relaxed", cfg.Extends)
		assert.Equal(t, config.Patterns{"vendor/", "*.gen.yaml"}, cfg.Ignore)
		assert.Equal(t, config.Patterns{"*.yaml"}, cfg.YAMLFiles)
		assert.Equal(t, config.Disabled(), cfg.Rules["document-start"])
		assert.Equal(t, config.Enabled(nil), cfg.Rules["comments"])

		want := config.RuleConfig{
			Enabled: true,
			Level:   config.SeverityWarning,
			Ignore:  config.Patterns{"tests/"},
			Options: map[string]any{"max": 120},
		}
		if diff := cmp.Diff(want, cfg.Rules["line-length"]); diff != "" {
			t.Errorf("line-length mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.NotNil(t, cfg.Rules)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("flavor: gfm\n"))
		require.Error(t, err)
	})

	t.Run("rejects bad rule entry", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("rules:\n  truthy: maybe\n"))
		require.Error(t, err)
	})

	t.Run("rejects bad level", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("rules:\n  truthy:\n    level: fatal\n"))
		require.Error(t, err)
	})

	t.Run("rejects non-string patterns", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("ignore: [1, 2]\n"))
		require.Error(t, err)
	})
}

func TestRuleConfig_Extend(t *testing.T) {
	t.Parallel()

	base := config.Enabled(map[string]any{"max": 80, "allow-non-breakable-words": true})

	tests := []struct {
		name     string
		base     config.RuleConfig
		override config.RuleConfig
		want     config.RuleConfig
	}{
		{
			name:     "mapping updates enabled base",
			base:     base,
			override: config.Enabled(map[string]any{"max": 120}),
			want:     config.Enabled(map[string]any{"max": 120, "allow-non-breakable-words": true}),
		},
		{
			name:     "level override keeps options",
			base:     base,
			override: config.RuleConfig{Enabled: true, Level: config.SeverityWarning, Options: map[string]any{}},
			want:     base.WithLevel(config.SeverityWarning),
		},
		{
			name:     "mapping replaces disabled base",
			base:     config.Disabled(),
			override: config.Enabled(map[string]any{"max": 120}),
			want:     config.Enabled(map[string]any{"max": 120}),
		},
		{
			name:     "enable resets options",
			base:     base,
			override: config.Enabled(nil),
			want:     config.Enabled(nil),
		},
		{
			name:     "disable replaces",
			base:     base,
			override: config.Disabled(),
			want:     config.Disabled(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.base.Extend(tt.override)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extend() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("does not alias base options", func(t *testing.T) {
		t.Parallel()
		b := config.Enabled(map[string]any{"max": 80})
		got := b.Extend(config.Enabled(map[string]any{"max": 100}))
		assert.Equal(t, 100, got.Options["max"])
		assert.Equal(t, 80, b.Options["max"])
	})
}

func TestConfig_Extend(t *testing.T) {
	t.Parallel()

	base := &config.Config{
		YAMLFiles: config.DefaultYAMLFiles(),
		Rules: map[string]config.RuleConfig{
			"line-length":  config.Enabled(map[string]any{"max": 80}),
			"document-end": config.Disabled(),
		},
	}
	override := &config.Config{
		Extends: "default",
		Ignore:  config.Patterns{"vendor/"},
		Rules: map[string]config.RuleConfig{
			"line-length": config.Enabled(map[string]any{"max": 120}),
			"truthy":      config.Disabled(),
		},
	}

	got := base.Extend(override)

	assert.Equal(t, config.DefaultYAMLFiles(), got.YAMLFiles)
	assert.Equal(t, config.Patterns{"vendor/"}, got.Ignore)
	assert.Equal(t, 120, got.Rules["line-length"].Options["max"])
	assert.Equal(t, config.Disabled(), got.Rules["document-end"])
	assert.Equal(t, config.Disabled(), got.Rules["truthy"])
	assert.Equal(t, 80, base.Rules["line-length"].Options["max"])
}

func TestPatterns_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte("ignore: \"a\\n\\n  b  \\n\"\n"))
	require.NoError(t, err)
	assert.Equal(t, config.Patterns{"a", "b"}, cfg.Ignore)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.DefaultPreset, cfg.Extends)
	assert.Equal(t, config.Patterns{"*.yaml", "*.yml", ".yamllint"}, cfg.YAMLFiles)
	assert.Equal(t, config.FormatAuto, cfg.Format)
	assert.NotNil(t, cfg.Rules)
}

func TestSeverityAndFormat_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.SeverityError.IsValid())
	assert.True(t, config.SeverityWarning.IsValid())
	assert.False(t, config.Severity("info").IsValid())
	assert.True(t, config.FormatSARIF.IsValid())
	assert.False(t, config.OutputFormat("diff").IsValid())
}
