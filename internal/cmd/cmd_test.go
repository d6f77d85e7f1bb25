package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeExport(t *testing.T, n int) string {
	t.Helper()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		ts := start.Add(time.Duration(i) * time.Hour)
		fmt.Fprintf(&sb, "%s - %s: message number %d\n", ts.Format("02/01/2006, 15:04"), sender, i)
	}
	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHATPULSE_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParticipantsCommand(t *testing.T) {
	out, err := run(t, "participants", writeExport(t, 4))
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if out != "Overall\nAlice\nBob\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	out, err := run(t, "analyze", writeExport(t, 12), "--format", "json", "--user", "Bob")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var report struct {
		Participant string `json:"participant"`
		ViewRows    int    `json:"view_rows"`
		Stats       struct {
			Status string `json:"status"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if report.Participant != "Bob" || report.ViewRows != 6 || report.Stats.Status != "computed" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestAnalyzeCommand_UnknownUser(t *testing.T) {
	if _, err := run(t, "analyze", writeExport(t, 4), "--user", "Mallory", "--format", "markdown"); err == nil {
		t.Fatalf("expected error for unknown participant")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "chatpulse version ") {
		t.Fatalf("unexpected output %q", out)
	}
}
