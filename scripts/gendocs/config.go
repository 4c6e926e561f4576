package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapbridge/internal/cli/config"
)

// configDescriptions documents every key returned by config.Defaults.
var configDescriptions = map[string]string{
	"store.uri":               "Connection URI of the relational store. Scheme selects the adapter: mysql, postgres, sqlite, duckdb",
	"store.statement":         "Read statement executed by query",
	"generation.host":         "Base URL of the local Ollama service",
	"generation.model":        "Model used when a request does not name one",
	"server.addr":             "Listen address of the HTTP surface",
	"server.shutdown_timeout": "Grace period for in-flight requests on shutdown",
	"server.allowed_origins":  "Origins allowed through CORS, comma separated in the environment. Empty disables CORS",
	"server.generate_rps":     "Sustained rate of /v1/generate requests per second. 0 disables the limit",
	"server.generate_burst":   "Burst size of the /v1/generate limit",
	"local.path":              "Path of the embedded SQLite database managed by migrate",
	"verbose":                 "Enable debug logging",
	"output":                  "Output format: auto, text, json",
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "LeapBridge configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("LeapBridge reads `leapbridge.yaml` from the working directory or any parent. " +
		"Environment variables override the file and command-line flags override both.")

	defaults := config.Defaults()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := []string{"Key", "Environment", "Default", "Description"}
	var rows [][]string
	for _, k := range keys {
		def := fmt.Sprint(defaults[k])
		if def == "" {
			def = "-"
		} else {
			def = InlineCode(def)
		}
		desc, ok := configDescriptions[k]
		if !ok {
			return fmt.Errorf("config key %s has no description", k)
		}
		rows = append(rows, []string{InlineCode(k), InlineCode(envName(k)), def, desc})
	}
	w.Table(headers, rows)

	w.Paragraph("`store.uri` may reference environment variables as `${NAME}`; they are expanded at load time.")

	w.Header(2, "Example")
	file, err := config.DefaultFile()
	if err != nil {
		return fmt.Errorf("failed to render default file: %w", err)
	}
	w.CodeBlock("yaml", string(file))

	log.Printf("  Generated configuration.md")
	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}

// envName maps a config key to its environment variable.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
