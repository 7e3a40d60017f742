package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kac-dev/kac/internal/changelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir and clears KAC_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("HOME", home)
	for _, key := range []string{"FILE", "FORMAT", "URL", "HTTPS", "HEAD", "QUIET", "NO_V_PREFIX"} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOptions(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, &Configuration{
		File:   "CHANGELOG.md",
		Format: "compact",
		HTTPS:  true,
	}, cfg)
	format, ok := cfg.ChangelogFormat()
	assert.True(t, ok)
	assert.Equal(t, changelog.FormatCompact, format)
}

func TestConfiguration_ChangelogFormat(t *testing.T) {
	tests := map[string]struct {
		format string
		want   changelog.Format
		wantOK bool
	}{
		"compact":      {format: "compact", want: changelog.FormatCompact, wantOK: true},
		"markdownlint": {format: "markdownlint", want: changelog.FormatMarkdownLint, wantOK: true},
		"unknown":      {format: "html"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := (&Configuration{Format: tt.format}).ChangelogFormat()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoad_Layers(t *testing.T) {
	tests := map[string]struct {
		user    string
		project string
		toml    string
		legacy  string
		env     map[string]string
		want    Configuration
	}{
		"user file": {
			user: "format: markdownlint\nhttps: false\n",
			want: Configuration{File: "CHANGELOG.md", Format: "markdownlint", HTTPS: false},
		},
		"project overrides user": {
			user:    "format: markdownlint\nhead: trunk\n",
			project: "format: compact\nfile: docs/CHANGES.md\n",
			want:    Configuration{File: "docs/CHANGES.md", Format: "compact", HTTPS: true, Head: "trunk"},
		},
		"legacy json project": {
			legacy: `{"url": "https://gitlab.com/acme/widget", "no_v_prefix": true}`,
			want:   Configuration{File: "CHANGELOG.md", Format: "compact", HTTPS: true, URL: "https://gitlab.com/acme/widget", NoVPrefix: true},
		},
		"yaml preferred over legacy json": {
			project: "head: main\n",
			legacy:  `{"head": "develop"}`,
			want:    Configuration{File: "CHANGELOG.md", Format: "compact", HTTPS: true, Head: "main"},
		},
		"toml project": {
			toml: "format = \"markdownlint\"\nno_v_prefix = true\nhead = \"trunk\"\n",
			want: Configuration{File: "CHANGELOG.md", Format: "markdownlint", HTTPS: true, Head: "trunk", NoVPrefix: true},
		},
		"yaml preferred over toml": {
			project: "head: main\n",
			toml:    "head = \"develop\"\n",
			want:    Configuration{File: "CHANGELOG.md", Format: "compact", HTTPS: true, Head: "main"},
		},
		"toml preferred over legacy json": {
			toml:   "url = \"https://codeberg.org/acme/widget\"\n",
			legacy: `{"url": "https://gitlab.com/acme/widget"}`,
			want:   Configuration{File: "CHANGELOG.md", Format: "compact", HTTPS: true, URL: "https://codeberg.org/acme/widget"},
		},
		"env overrides files": {
			project: "quiet: false\nformat: compact\n",
			env:     map[string]string{"KAC_QUIET": "true", "KAC_FORMAT": "markdownlint", "KAC_NO_V_PREFIX": "1"},
			want:    Configuration{File: "CHANGELOG.md", Format: "markdownlint", HTTPS: true, Quiet: true, NoVPrefix: true},
		},
		"format normalized": {
			project: "format: MarkdownLint\n",
			want:    Configuration{File: "CHANGELOG.md", Format: "markdownlint", HTTPS: true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			home := isolate(t)
			dir := t.TempDir()

			if tt.user != "" {
				writeFile(t, filepath.Join(home, ".config", "kac", "config.yml"), tt.user)
			}
			if tt.project != "" {
				writeFile(t, ProjectConfigPath(dir), tt.project)
			}
			if tt.toml != "" {
				writeFile(t, TOMLProjectConfigPath(dir), tt.toml)
			}
			if tt.legacy != "" {
				writeFile(t, LegacyProjectConfigPath(dir), tt.legacy)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadWithOptions(LoadOptions{Dir: dir, SkipWarnings: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestLoad_LegacyWarnings(t *testing.T) {
	tests := map[string]struct {
		withYAML bool
		want     string
	}{
		"legacy only":      {want: "Using deprecated JSON config"},
		"legacy with yaml": {withYAML: true, want: "(ignored, using"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			writeFile(t, LegacyProjectConfigPath(dir), `{"head": "develop"}`)
			if tt.withYAML {
				writeFile(t, ProjectConfigPath(dir), "head: main\n")
			}

			var buf bytes.Buffer
			_, err := LoadWithOptions(LoadOptions{Dir: dir, WarningWriter: &buf})
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)

			buf.Reset()
			_, err = LoadWithOptions(LoadOptions{Dir: dir, WarningWriter: &buf, SkipWarnings: true})
			require.NoError(t, err)
			assert.Empty(t, buf.String())
		})
	}
}

func TestLoad_ExplicitProjectConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "ci", "kac.yml")
	writeFile(t, yamlPath, "format: markdownlint\n")
	cfg, err := LoadWithOptions(LoadOptions{Dir: dir, ProjectConfigPath: yamlPath})
	require.NoError(t, err)
	assert.Equal(t, "markdownlint", cfg.Format)

	jsonPath := filepath.Join(dir, "ci", "kac.json")
	writeFile(t, jsonPath, `{"head": "trunk"}`)
	cfg, err = LoadWithOptions(LoadOptions{Dir: dir, ProjectConfigPath: jsonPath})
	require.NoError(t, err)
	assert.Equal(t, "trunk", cfg.Head)

	tomlPath := filepath.Join(dir, "ci", "kac.toml")
	writeFile(t, tomlPath, "https = false\n")
	cfg, err = LoadWithOptions(LoadOptions{Dir: dir, ProjectConfigPath: tomlPath})
	require.NoError(t, err)
	assert.False(t, cfg.HTTPS)

	_, err = LoadWithOptions(LoadOptions{Dir: dir, ProjectConfigPath: filepath.Join(dir, "missing.yml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		project string
		toml    string
		env     map[string]string
		wantMsg string
	}{
		"invalid yaml": {
			project: "format: [compact\n",
			wantMsg: "validating YAML syntax",
		},
		"invalid toml": {
			toml:    "format = \n",
			wantMsg: "loading project TOML config",
		},
		"unknown format": {
			project: "format: html\n",
			wantMsg: "format must be one of",
		},
		"empty file name": {
			env:     map[string]string{"KAC_FILE": "  "},
			wantMsg: "file is required",
		},
		"head with spaces": {
			project: "head: my branch\n",
			wantMsg: "head must not contain whitespace",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			if tt.project != "" {
				writeFile(t, ProjectConfigPath(dir), tt.project)
			}
			if tt.toml != "" {
				writeFile(t, TOMLProjectConfigPath(dir), tt.toml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithOptions(LoadOptions{Dir: dir})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		content  *string
		wantErr  bool
		wantLine int
	}{
		"missing file": {content: nil},
		"empty file":   {content: ptr("  \n")},
		"valid":        {content: ptr("file: CHANGELOG.md\n")},
		"broken":       {content: ptr("file: a\n  bad: [\n"), wantErr: true},
		"bad indent":   {content: ptr("file: a\n format: b\n"), wantErr: true, wantLine: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yml")
			if tt.content != nil {
				writeFile(t, path, *tt.content)
			}

			err := ValidateYAMLSyntax(path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, path, ve.FilePath)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, ve.Line)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"position": {
			err:  ValidationError{FilePath: ".kac.yml", Line: 3, Column: 2, Message: "did not find expected key"},
			want: ".kac.yml:3:2: did not find expected key",
		},
		"field": {
			err:  ValidationError{FilePath: "config", Field: "format", Message: "is invalid"},
			want: "config: format is invalid",
		},
		"plain": {
			err:  ValidationError{FilePath: ".kac.yml", Message: "permission denied"},
			want: ".kac.yml: permission denied",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestYAMLMessage(t *testing.T) {
	assert.Equal(t, "could not find expected ':'", yamlMessage("yaml: line 5: could not find expected ':'"))
	assert.Equal(t, "plain failure", yamlMessage("plain failure"))

	line, col := yamlPosition("yaml: line 7: mapping values are not allowed in this context")
	assert.Equal(t, 7, line)
	assert.Equal(t, 1, col)
}

func TestDefaultConfigTemplate(t *testing.T) {
	require.NoError(t, validateYAML([]byte(GetDefaultConfigTemplate()), "template"))

	for key := range GetDefaults() {
		assert.Contains(t, GetDefaultConfigTemplate(), key+":")
	}
}

func ptr(s string) *string { return &s }
