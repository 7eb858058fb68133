package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creationrights/internal/domain"
	"creationrights/internal/handler"
	"creationrights/internal/repository/remote"
	"creationrights/internal/service/userdata"
)

func setupCLIEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CATALOG_DATA_DIR", dir)
	t.Setenv("CATALOG_REMOTE_URL", "")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRunCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("catalog %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestFolderAndCreationLifecycle(t *testing.T) {
	setupCLIEnv(t)

	out := mustRunCLI(t, "folder", "add", "Drafts", "--parent", "Written Works")
	if !strings.Contains(out, "Created folder Written Works/Drafts") {
		t.Fatalf("folder add output = %q", out)
	}

	out = mustRunCLI(t, "creation", "add",
		"--title", "Draft One", "--type", "text", "--date", "2024-02-01",
		"--folder", "Written Works/Drafts", "--tag", "draft,wip")
	if !strings.Contains(out, `Created "Draft One"`) {
		t.Fatalf("creation add output = %q", out)
	}

	out = mustRunCLI(t, "creation", "list", "--folder", "written works/drafts")
	if !strings.Contains(out, "Draft One") || !strings.Contains(out, "draft, wip") {
		t.Errorf("list output missing new creation:\n%s", out)
	}

	out = mustRunCLI(t, "creation", "list", "--folder", "Images/Photography", "--tab", "text")
	if !strings.Contains(out, "No creations") {
		t.Errorf("text tab in Photography should be empty:\n%s", out)
	}

	out, err := runCLI(t, "n\n", "folder", "rm", "Written Works")
	if err != nil || !strings.Contains(out, "Cancelled") {
		t.Fatalf("declined rm = %q, %v", out, err)
	}
	if out := mustRunCLI(t, "folder", "tree"); !strings.Contains(out, "Drafts") {
		t.Fatalf("declined rm removed the folder:\n%s", out)
	}

	out, err = runCLI(t, "y\n", "folder", "rm", "Written Works")
	if err != nil || !strings.Contains(out, "with 4 folder(s) and 2 creation(s)") {
		t.Fatalf("confirmed rm = %q, %v", out, err)
	}

	out = mustRunCLI(t, "folder", "tree")
	if strings.Contains(out, "Written Works") || strings.Contains(out, "Drafts") {
		t.Errorf("cascade left folders behind:\n%s", out)
	}
	if _, err := runCLI(t, "", "creation", "show", "c3"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("show of cascaded creation = %v, want ErrNotFound", err)
	}
}

func TestCreationEditKeepsUnchangedFields(t *testing.T) {
	setupCLIEnv(t)

	mustRunCLI(t, "creation", "edit", "c1", "--title", "Rocky Mountain Landscape")

	out := mustRunCLI(t, "creation", "show", "c1")
	for _, want := range []string{"Rocky Mountain Landscape", "2023-04-15", "Images/Photography", "nature, landscape"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "", "creation", "edit", "c1", "--type", "Sculpture"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("edit with unknown type = %v, want ErrValidation", err)
	}
	if _, err := runCLI(t, "", "creation", "add", "--type", "Image"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("add without title = %v, want ErrValidation", err)
	}
}

func TestCorruptCacheFallsBackToSeed(t *testing.T) {
	dir := setupCLIEnv(t)
	garbage := bytes.Repeat([]byte("not a sqlite database\n"), 256)
	if err := os.WriteFile(filepath.Join(dir, "cache.db"), garbage, 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	out := mustRunCLI(t, "creation", "list", "--folder", "Images/Photography")
	if !strings.Contains(out, "Mountain Landscape") {
		t.Errorf("list over unreadable cache missing seed creation:\n%s", out)
	}
	if !strings.Contains(out, "changes will not be saved") {
		t.Errorf("no warning about the unreadable cache:\n%s", out)
	}

	if out := mustRunCLI(t, "stats"); !strings.Contains(out, "Total creations") {
		t.Errorf("stats over unreadable cache = %q", out)
	}
}

func TestImportCommandIsIdempotent(t *testing.T) {
	dir := setupCLIEnv(t)

	path := filepath.Join(dir, "videos.json")
	payload := `[
		{"id":"yt-abc","title":"Launch video","type":"Video","dateCreated":"2024-01-02",
		 "tags":["launch"],"source":"YouTube","sourceUrl":"https://www.youtube.com/watch?v=abc"},
		{"id":"c1","title":"Mountain Landscape","type":"Image","dateCreated":"2023-04-15","folderId":"f4"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	out := mustRunCLI(t, "import", path)
	if !strings.Contains(out, "Imported 1 creation(s), skipped 1") {
		t.Fatalf("first import = %q", out)
	}
	out = mustRunCLI(t, "import", path)
	if !strings.Contains(out, "Imported 0 creation(s), skipped 2") {
		t.Fatalf("second import = %q", out)
	}

	out = mustRunCLI(t, "creation", "show", "yt-abc")
	if !strings.Contains(out, "YouTube") || !strings.Contains(out, "watch?v=abc") {
		t.Errorf("imported origin not shown:\n%s", out)
	}

	if _, err := runCLI(t, "", "import", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("import of a missing file succeeded")
	}
}

func TestLoginSyncsWithRemote(t *testing.T) {
	setupCLIEnv(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := remote.NewMemory()
	mux := http.NewServeMux()
	handler.NewUserDataHandler(userdata.NewService(store, logger), logger).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("CATALOG_REMOTE_URL", srv.URL)

	if out := mustRunCLI(t, "whoami"); !strings.Contains(out, "Not signed in") {
		t.Fatalf("whoami before login = %q", out)
	}

	out := mustRunCLI(t, "login", "creator")
	if !strings.Contains(out, "Signed in as Jane Creator") {
		t.Fatalf("login output = %q", out)
	}

	ctx := context.Background()
	creations, err := store.GetCreations(ctx, "user1")
	if err != nil || len(creations) != 4 {
		t.Fatalf("remote creations after first login = %d, %v", len(creations), err)
	}

	mustRunCLI(t, "folder", "add", "Podcasts")
	folders, err := store.GetFolders(ctx, "user1")
	if err != nil {
		t.Fatalf("GetFolders: %v", err)
	}
	found := false
	for _, f := range folders {
		found = found || f.Name == "Podcasts"
	}
	if !found {
		t.Error("folder created while signed in was not mirrored")
	}

	if out := mustRunCLI(t, "whoami"); !strings.Contains(out, "user1") {
		t.Errorf("whoami after login = %q", out)
	}
	if out := mustRunCLI(t, "logout"); !strings.Contains(out, "Signed out") {
		t.Errorf("logout output = %q", out)
	}
	if out := mustRunCLI(t, "whoami"); !strings.Contains(out, "Not signed in") {
		t.Errorf("whoami after logout = %q", out)
	}

	if _, err := runCLI(t, "", "login", "admin"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("login with unknown account type = %v, want ErrValidation", err)
	}
}

func TestCatalogTablePadsRowsAndSeparatesTotals(t *testing.T) {
	var out bytes.Buffer
	counts := catalogTable{
		headers: []string{"Type", "Count"},
		rows:    [][]string{{"Image", "2"}, {"Video"}},
		totals:  [][]string{{"Total creations", "2"}},
		right:   []int{1},
	}
	rendered := counts.render(&out)

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	separators := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "+") {
			separators++
		}
	}
	// top, under header, before totals, bottom
	if separators != 4 {
		t.Errorf("got %d border lines, want 4:\n%s", separators, rendered)
	}
	if !strings.Contains(rendered, "| Video           |       |") {
		t.Errorf("short row not padded:\n%s", rendered)
	}
	if got := (catalogTable{}).render(&out); got != "" {
		t.Errorf("table without headers = %q, want empty", got)
	}
}
