package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fortunelab/pkg/httputil"
	"github.com/wonny/fortunelab/pkg/redis"
)

// ErrNotFound is returned (wrapped) when an artifact does not exist
var ErrNotFound = errors.New("artifact not found")

// Source fetches raw artifact payloads by file name (e.g. "meta.json")
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Kind() string
}

// FileSource reads artifacts from a local directory
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Kind() string { return "file" }

// Fetch reads <dir>/<name>
func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// HTTPSource fetches artifacts from the static site that publishes them
type HTTPSource struct {
	client  *httputil.Client
	baseURL string
}

// NewHTTPSource creates a source for <baseURL>/<name>
func NewHTTPSource(client *httputil.Client, baseURL string) *HTTPSource {
	return &HTTPSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *HTTPSource) Kind() string { return "http" }

// Fetch GETs <baseURL>/<name>; 404 maps to ErrNotFound
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := s.baseURL + "/" + name

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	return body, nil
}

// RedisSource reads artifacts stored under <prefix>:artifact:<name>
type RedisSource struct {
	client *redis.Client
	prefix string
}

// NewRedisSource creates a Redis-backed source
func NewRedisSource(client *redis.Client, prefix string) *RedisSource {
	return &RedisSource{client: client, prefix: prefix}
}

func (s *RedisSource) Kind() string { return "redis" }

// Key returns the Redis key an artifact is published under
func (s *RedisSource) Key(name string) string {
	return fmt.Sprintf("%s:artifact:%s", s.prefix, name)
}

// Fetch reads the artifact key
func (s *RedisSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := s.Key(name)

	data, err := s.client.GetBytes(ctx, key)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

// PostgresSource reads the newest published payload per artifact from
// dashboard.artifacts(name text, payload jsonb, published_at timestamptz)
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a Postgres-backed source
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Kind() string { return "postgres" }

const latestArtifactQuery = `
	SELECT payload::text
	FROM dashboard.artifacts
	WHERE name = $1
	ORDER BY published_at DESC
	LIMIT 1
`

// Fetch returns the latest payload for name
func (s *PostgresSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var payload string
	err := s.pool.QueryRow(ctx, latestArtifactQuery, name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dashboard.artifacts/%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query artifact %s: %w", name, err)
	}

	return []byte(payload), nil
}
