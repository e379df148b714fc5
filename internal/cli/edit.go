package cli

import (
	"context"
	"encoding/csv"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/source/csvfile"
)

// editCommand creates the edit command: an interactive interval editor
// with a live layout preview.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit intervals interactively with a live layout preview",
		Long: `Edit opens an interval CSV in a terminal editor. Every change
recomputes the stacked layout after a short pause, so the preview and the
validation report always reflect what you typed. The file on disk is only
touched when you save.

A file that does not exist yet starts empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, path string) error {
	rows, err := loadEditorRows(path)
	if err != nil {
		return reportReadError(path, err)
	}

	p := tea.NewProgram(NewEditorModel(path, rows), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// loadEditorRows reads the file into editable rows. Broken cell values are
// kept as-is so the user can fix them in the editor; only a broken header
// is fatal. A missing file yields an empty editor.
func loadEditorRows(path string) ([]editorRow, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	raw, err := csvfile.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows := make([]editorRow, len(raw))
	for i, r := range raw {
		rows[i] = editorRow{
			id:    r[interval.ColID],
			start: r[interval.ColStart],
			end:   r[interval.ColEnd],
		}
	}
	return rows, nil
}

// saveRows writes the rows back as a canonical id,start,end CSV.
func saveRows(path string, rows []editorRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, interval.Columns)
	for _, r := range rows {
		records = append(records, []string{r.id, r.start, r.end})
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
