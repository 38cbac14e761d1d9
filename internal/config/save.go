// Package config provides configuration types, defaults, and persistence for hunky.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteDefault writes a starter config file to path. Existing files are
// never overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	cfg := Default()
	node := yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("watch"), mapping(
				commented("debounce_ms", cfg.Watch.DebounceMs, "quiet window (ms) before a file-event burst triggers a refresh"),
			),
			scalar("diff"), mapping(
				commented("context_lines", cfg.Diff.ContextLines, "unchanged lines shown around each change (max 5)"),
			),
			scalar("stream"), mapping(
				commented("mode", cfg.Stream.Mode, "auto | buffered"),
				commented("speed", cfg.Stream.Speed, "fast | medium | slow"),
				commented("view", cfg.Stream.View, "new | all"),
			),
			scalar("ui"), mapping(
				commented("wrap_lines", cfg.UI.WrapLines, ""),
				commented("show_status_bar", cfg.UI.ShowStatusBar, ""),
			),
			scalar("debug"), mapping(
				commented("enabled", cfg.Debug.Enabled, ""),
				commented("log_path", cfg.Debug.LogPath, "debug log destination"),
			),
		},
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(path, buf.Bytes())
}

// writeAtomic writes data via a temp file and rename so a crash never
// leaves a half-written config.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".hunky.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func mapping(pairs ...[2]*yaml.Node) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range pairs {
		node.Content = append(node.Content, p[0], p[1])
	}
	return node
}

func commented(key string, value any, comment string) [2]*yaml.Node {
	k := scalar(key)
	v := &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%v", value)}
	if comment != "" {
		v.LineComment = comment
	}
	return [2]*yaml.Node{k, v}
}
