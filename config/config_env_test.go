package config

import (
	"strings"
	"testing"
)

// TestEnvironmentVariableExpansion tests ${VAR} and ${VAR:-default} handling
func TestEnvironmentVariableExpansion(t *testing.T) {
	testCases := []struct {
		name       string
		envVars    map[string]string
		yamlConfig string
		validate   func(*testing.T, *Config)
		wantErr    bool
		errMsg     string
	}{
		{
			name: "basic env var expansion",
			envVars: map[string]string{
				"LEGALEASE_TEST_KEY": "test-key-123",
			},
			yamlConfig: `
llm:
    api_key: ${LEGALEASE_TEST_KEY}`,
			validate: func(t *testing.T, c *Config) {
				if c.LLM.APIKey != "test-key-123" {
					t.Errorf("API key not expanded correctly, got %s, want test-key-123", c.LLM.APIKey)
				}
			},
		},
		{
			name: "missing env var falls back to provider key",
			envVars: map[string]string{
				"GEMINI_API_KEY": "gemini-key",
			},
			yamlConfig: `
llm:
    api_key: ${LEGALEASE_MISSING_KEY}`,
			validate: func(t *testing.T, c *Config) {
				if c.LLM.APIKey != "gemini-key" {
					t.Errorf("expected GEMINI_API_KEY fallback, got %q", c.LLM.APIKey)
				}
			},
		},
		{
			name:    "default value",
			envVars: map[string]string{},
			yamlConfig: `
llm:
    model: ${LEGALEASE_MODEL:-gemini-1.5-pro}`,
			validate: func(t *testing.T, c *Config) {
				if c.LLM.Model != "gemini-1.5-pro" {
					t.Errorf("default not applied, got %s", c.LLM.Model)
				}
			},
		},
		{
			name: "default value overridden",
			envVars: map[string]string{
				"LEGALEASE_PORT": "6001",
			},
			yamlConfig: `
server:
    port: ${LEGALEASE_PORT:-5001}`,
			validate: func(t *testing.T, c *Config) {
				if c.Server.Port != 6001 {
					t.Errorf("env value not used, got %d", c.Server.Port)
				}
			},
		},
		{
			name: "invalid port from env var",
			envVars: map[string]string{
				"LEGALEASE_PORT": "-1",
			},
			yamlConfig: `
server:
    port: ${LEGALEASE_PORT}`,
			wantErr: true,
			errMsg:  "invalid port",
		},
		{
			name:    "empty variable name",
			envVars: map[string]string{},
			yamlConfig: `
llm:
    model: ${:-x}`,
			wantErr: true,
			errMsg:  "invalid variable reference",
		},
		{
			name: "template variables and bare dollars are kept",
			envVars: map[string]string{
				"LEGALEASE_TEST_MODEL": "gemini-1.5-pro",
			},
			yamlConfig: `
llm:
    model: ${LEGALEASE_TEST_MODEL}
processing:
    templates:
        dictionary: |
            {{with $t := .Term}}Define "{{$t}}" for fees over $500 in {{$.Language}}.{{end}}`,
			validate: func(t *testing.T, c *Config) {
				if c.LLM.Model != "gemini-1.5-pro" {
					t.Errorf("model not expanded, got %s", c.LLM.Model)
				}
				want := `{{with $t := .Term}}Define "{{$t}}" for fees over $500 in {{$.Language}}.{{end}}` + "\n"
				if got := c.Processing.Templates["dictionary"]; got != want {
					t.Errorf("template altered by expansion:\n got %q\nwant %q", got, want)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}

			config, err := Load(strings.NewReader(tc.yamlConfig))

			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tc.errMsg)
				} else if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("Expected error containing %q, got %v", tc.errMsg, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tc.validate(t, config)
		})
	}
}

func TestExpandEnvVarsLeavesBareDollars(t *testing.T) {
	t.Setenv("LEGALEASE_TEST_HOST", "example.org")

	cases := map[string]string{
		"$HOME and $500":                    "$HOME and $500",
		"{{$x := .Term}}{{$x}}":             "{{$x := .Term}}{{$x}}",
		"host=${LEGALEASE_TEST_HOST}":       "host=example.org",
		"${LEGALEASE_TEST_UNSET:-fallback}": "fallback",
		"${LEGALEASE_TEST_HOST:-unused} $1": "example.org $1",
		"cost $${LEGALEASE_TEST_HOST}":      "cost $example.org",
		"${LEGALEASE_TEST_UNSET}":           "",
	}
	for in, want := range cases {
		got, err := expandEnvVars(in)
		if err != nil {
			t.Fatalf("expandEnvVars(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", in, got, want)
		}
	}
}
