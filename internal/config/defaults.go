package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# kac configuration
# Command line flags override every value below.

file: CHANGELOG.md                    # Changelog path, relative to the project root
format: compact                       # Output variant: compact | markdownlint
url: ""                               # Repository URL (empty = read remote "origin")
https: true                           # Use https when rewriting ssh remotes
head: ""                              # Head ref for the unreleased link (empty = provider default)
quiet: false                          # Report errors without a failing exit code
no_v_prefix: false                    # Tags are the bare version (1.2.0 instead of v1.2.0)
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"file":   "CHANGELOG.md",
		"format": "compact",
		"url":    "",
		// https: ssh remotes are rewritten to https unless disabled.
		"https":       true,
		"head":        "",
		"quiet":       false,
		"no_v_prefix": false,
	}
}
