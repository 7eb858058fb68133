package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
	"creationrights/internal/service/catalog"
)

// catalogTable is one CLI listing: the creations in a folder, the fields of
// one creation, or the per-type counts. Rows shorter than the header are
// padded with blanks. Totals are set off from the body by a separator.
type catalogTable struct {
	headers []string
	rows    [][]string
	totals  [][]string
	right   []int // zero-based columns holding counts or positions
}

// render draws rounded borders on a terminal and plain ASCII otherwise.
func (t catalogTable) render(out io.Writer) string {
	if len(t.headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	if isTerminal(out) {
		tw.SetStyle(table.StyleRounded)
	}

	tw.AppendHeader(t.row(t.headers))
	for _, r := range t.rows {
		tw.AppendRow(t.row(r))
	}
	if len(t.totals) > 0 {
		tw.AppendSeparator()
		for _, r := range t.totals {
			tw.AppendRow(t.row(r))
		}
	}

	configs := make([]table.ColumnConfig, 0, len(t.right))
	for _, col := range t.right {
		configs = append(configs, table.ColumnConfig{
			Number:      col + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render() + "\n"
}

func (t catalogTable) row(cells []string) table.Row {
	r := make(table.Row, len(t.headers))
	for i := range r {
		r[i] = ""
		if i < len(cells) {
			r[i] = cells[i]
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// resolveFolder accepts a folder id or a slash-separated name path such as
// "Images/Photography". An empty ref or "/" means the root.
func resolveFolder(ref string, folders []models.Folder) (*string, error) {
	ref = strings.Trim(strings.TrimSpace(ref), "/")
	if ref == "" {
		return nil, nil
	}
	for _, f := range folders {
		if f.ID == ref {
			id := f.ID
			return &id, nil
		}
	}
	for _, f := range folders {
		id := f.ID
		path, err := catalog.FolderPath(&id, folders)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(path, ref) {
			return &id, nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", ref)}
}

func folderLabel(folderID string, folders []models.Folder) string {
	if folderID == "" {
		return "/"
	}
	path, err := catalog.FolderPath(&folderID, folders)
	if err != nil || path == "" {
		return folderID
	}
	return path
}

// confirmDelete asks before consuming the token; a declined prompt cancels it.
func confirmDelete(in io.Reader, out io.Writer, ws svc.Workspace, pd *svc.PendingDelete, assumeYes bool) error {
	if !assumeYes {
		fmt.Fprintf(out, "Delete %s %q", pd.Kind, pd.Name)
		if pd.Kind == "folder" {
			fmt.Fprintf(out, " with %d folder(s) and %d creation(s)", pd.FolderCount, pd.CreationCount)
		}
		fmt.Fprint(out, "? [y/N] ")

		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Cancelled")
			return ws.CancelDelete(pd.Token)
		}
	}

	if err := ws.ConfirmDelete(pd.Token); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s %q\n", pd.Kind, pd.Name)
	return nil
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
