package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

// encode renders v in format. YAML and TOML go through the JSON form so that
// field names match the definition files.
func encode(v interface{}, format string) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}

	switch format {
	case formatJSON, "":
		return append(data, '\n'), nil
	case formatYAML, formatTOML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want json, yaml or toml)", format)
	}

	var generic interface{}
	if err := sonic.ConfigStd.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}

	if format == formatYAML {
		return yaml.Marshal(generic)
	}
	// TOML has no null
	return toml.Marshal(dropNulls(generic))
}

func dropNulls(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for key, value := range typed {
			if value == nil {
				continue
			}
			out[key] = dropNulls(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(typed))
		for _, value := range typed {
			if value != nil {
				out = append(out, dropNulls(value))
			}
		}
		return out
	default:
		return v
	}
}

func render(w io.Writer, v interface{}, format string) error {
	data, err := encode(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// writeOutputFile writes data to path, compressed by extension: .gz for
// gzip and .zst for zstd.
func writeOutputFile(path string, data []byte) (err error) {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	defer func() {
		if closeErr := outFile.Close(); err == nil {
			err = closeErr
		}
	}()

	var w io.WriteCloser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		w = gzip.NewWriter(outFile)
	case ".zst":
		zw, zerr := zstd.NewWriter(outFile)
		if zerr != nil {
			return fmt.Errorf("zstd writer: %w", zerr)
		}
		w = zw
	default:
		_, err = outFile.Write(data)
		return err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
