package dashboardconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no YAML file exists
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// default 태그는 정적이므로 여기 오면 코드 버그
		panic(fmt.Sprintf("dashboardconfig: invalid default tags: %v", err))
	}
	return cfg
}

// Load reads the YAML file at path.
// A missing file yields Default() with nil raw bytes; any other read,
// decode or validation failure is returned.
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read dashboard config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return cfg, data, nil
}

// Parse decodes YAML, fills defaults for omitted keys and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode dashboard config: %w", err)
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Hash generates SHA256 hash from Config (canonical JSON)
// 주의: map은 encoding/json이 키 정렬하므로 재현성 유지
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
