package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fortunelab/internal/artifacts"
	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/internal/render"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "산출물 상태 확인",
	Long: `산출물 소스의 상태를 확인합니다.

표시 정보:
- meta.json (기준일, 상태, 생성 오류)
- 산출물별 존재 여부와 크기
- DB 연결 상태 (ARTIFACT_SOURCE=postgres)

Example:
  go run ./cmd/dashboard status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// artifactStatus is one row of the availability table
type artifactStatus struct {
	Name     string
	Required bool
	Size     int
	Err      error
}

func (s artifactStatus) state() string {
	switch {
	case s.Err == nil:
		return "OK"
	case errors.Is(s.Err, artifacts.ErrNotFound):
		if s.Required {
			return "MISSING"
		}
		return "absent"
	default:
		return "ERROR"
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	PrintHeader(out, "Artifact Status", [][2]string{
		{"Source", a.source.Kind()},
		{"Env", a.cfg.Env},
		{"Config", a.cfg.DashboardConfigPath},
	})

	if a.db != nil {
		health, err := a.db.HealthCheck(ctx)
		if err != nil {
			PrintError(out, fmt.Sprintf("Database: %v", err))
		} else {
			PrintSuccess(out, fmt.Sprintf("Database: %s (%d/%d conns)",
				health.ResponseTime, health.TotalConns, health.MaxConns))
		}
	}

	rows := checkArtifacts(ctx, a.source, a.dashboard.ToNames())
	printArtifactTable(out, rows)

	meta, err := fetchMeta(ctx, a.source, a.dashboard.Artifacts.Meta)
	if err != nil {
		PrintWarning(out, fmt.Sprintf("meta: %v", err))
	} else {
		fmt.Fprintln(out)
		PrintKeyValue(out, "As of", render.AsOf(meta.AsOf), 13)
		PrintKeyValue(out, "Status", meta.Status, 13)
		PrintKeyValue(out, "Universe", strconv.Itoa(meta.UniverseSize), 13)
		PrintKeyValue(out, "Sources", strings.Join(meta.Source, ", "), 13)
		if len(meta.Errors) > 0 {
			PrintWarning(out, "생성 스크립트 오류:")
			PrintList(out, meta.Errors)
		}
	}

	for _, r := range rows {
		if r.Required && r.Err != nil {
			return fmt.Errorf("required artifact %s unavailable", r.Name)
		}
	}
	return nil
}

// checkArtifacts fetches every artifact once and records its size or error
func checkArtifacts(ctx context.Context, source artifacts.Source, names artifacts.Names) []artifactStatus {
	all := names.All()
	rows := make([]artifactStatus, 0, len(all))
	for _, art := range all {
		data, err := source.Fetch(ctx, art.Name)
		rows = append(rows, artifactStatus{
			Name:     art.Name,
			Required: art.Required,
			Size:     len(data),
			Err:      err,
		})
	}
	return rows
}

func printArtifactTable(w io.Writer, rows []artifactStatus) {
	widths := []int{26, 9, 8, 10}
	PrintTableHeader(w, []string{"Artifact", "Required", "State", "Bytes"}, widths)
	for _, r := range rows {
		size := "-"
		if r.Err == nil {
			size = strconv.Itoa(r.Size)
		}
		PrintTableRow(w, []string{r.Name, strconv.FormatBool(r.Required), r.state(), size}, widths)
	}
}

// fetchMeta decodes meta.json on its own so status works even when other
// artifacts are broken
func fetchMeta(ctx context.Context, source artifacts.Source, name string) (*contracts.Meta, error) {
	data, err := source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	var meta contracts.Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &meta, nil
}
