package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/app"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/ui/output"
	"go.trai.ch/jman/internal/ui/style"
)

// printer renders command results as styled tables or JSON.
type printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	plain bool
}

// newPrinter writes to the command's stdout in the mode chosen by --output.
func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	flag, _ := cmd.Flags().GetString("output")
	return &printer{
		w:     w,
		r:     lipgloss.NewRenderer(w, termenv.WithProfile(output.ColorProfile())),
		plain: output.ResolveMode(output.DetectMode(w), flag) == output.ModePlain,
	}
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) line(icon string, color lipgloss.Color, msg string) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.r.NewStyle().Foreground(color).Render(icon), msg)
}

func (p *printer) muted(msg string) {
	_, _ = fmt.Fprintln(p.w, p.r.NewStyle().Foreground(style.Slate).Render(msg))
}

func (p *printer) table(headers []string, rows [][]string, cell func(row, col int) lipgloss.Style) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.r.NewStyle().Foreground(style.Slate)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := p.r.NewStyle().Padding(0, 1)
			if p.plain {
				base = p.r.NewStyle().PaddingRight(2)
			}
			if row == table.HeaderRow {
				return base.Bold(true).Foreground(style.Iris)
			}
			if cell != nil {
				return cell(row, col).Inherit(base)
			}
			return base
		})
	if p.plain {
		t = t.BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
			BorderHeader(false).BorderColumn(false)
	}
	_, _ = fmt.Fprintln(p.w, t.Render())
}

func (p *printer) status(s domain.VerificationStatus) lipgloss.Style {
	return p.r.NewStyle().Foreground(style.StatusColor(s))
}

func (p *printer) listing(l app.Listing) {
	if len(l.Runtimes) == 0 {
		p.muted("No runtimes installed.")
		return
	}

	rows := make([][]string, 0, len(l.Runtimes))
	for _, rt := range l.Runtimes {
		marker := style.Circle
		if rt.ID == l.Active {
			marker = style.Dot
		}
		rows = append(rows, []string{
			marker,
			rt.ID,
			strconv.Itoa(rt.MajorVersion),
			rt.Name,
			rt.BuildLabel,
			style.StatusIcon(rt.VerificationStatus) + " " + string(rt.VerificationStatus),
		})
	}

	p.table([]string{"", "ID", "MAJOR", "NAME", "BUILD", "STATUS"}, rows, func(row, col int) lipgloss.Style {
		switch col {
		case 0:
			if l.Runtimes[row].ID == l.Active {
				return p.r.NewStyle().Foreground(style.Iris)
			}
		case 5:
			return p.status(l.Runtimes[row].VerificationStatus)
		}
		return p.r.NewStyle()
	})
}

func (p *printer) verification(results []domain.VerificationResult) {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			res.ID,
			style.StatusIcon(res.Status) + " " + string(res.Status),
			joinOrDash(res.MissingFiles),
			joinOrDash(res.CorruptedFiles),
		})
	}
	p.table([]string{"ID", "STATUS", "MISSING", "CORRUPTED"}, rows, func(row, col int) lipgloss.Style {
		if col == 1 {
			return p.status(results[row].Status)
		}
		return p.r.NewStyle()
	})
}

func (p *printer) updates(updates []domain.Update) {
	if len(updates) == 0 {
		p.line(style.Check, style.Green, "All runtimes are up to date.")
		return
	}
	rows := make([][]string, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, []string{u.InstanceID, u.CurrentBuildLabel, u.AvailableBuildLabel, u.DownloadURL})
	}
	p.table([]string{"ID", "INSTALLED", "AVAILABLE", "DOWNLOAD"}, rows, func(_, col int) lipgloss.Style {
		if col == 2 {
			return p.r.NewStyle().Foreground(style.Yellow)
		}
		return p.r.NewStyle()
	})
}

func (p *printer) available(runtimes []domain.AvailableRuntime, os string) {
	if len(runtimes) == 0 {
		p.muted("Nothing new in the catalog.")
		return
	}
	rows := make([][]string, 0, len(runtimes))
	for _, rt := range runtimes {
		vendor := rt.Vendor
		if vendor == "" {
			vendor = "-"
		}
		url := "-"
		for _, dl := range rt.Downloads {
			if dl.OS == os {
				url = dl.DownloadURL
				break
			}
		}
		rows = append(rows, []string{rt.Version, vendor, url})
	}
	p.table([]string{"VERSION", "VENDOR", "DOWNLOAD"}, rows, nil)
}

func (p *printer) history(events []domain.Event) {
	if len(events) == 0 {
		p.muted("No recorded operations.")
		return
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		id := ev.InstanceID
		if id == "" {
			id = "*"
		}
		rows = append(rows, []string{
			ev.OccurredAt.Local().Format(time.DateTime),
			string(ev.Operation),
			id,
			string(ev.Outcome),
			ev.Error,
		})
	}
	p.table([]string{"WHEN", "OPERATION", "RUNTIME", "OUTCOME", "ERROR"}, rows, func(row, col int) lipgloss.Style {
		if col != 3 {
			return p.r.NewStyle()
		}
		switch events[row].Outcome {
		case domain.OutcomeSuccess:
			return p.r.NewStyle().Foreground(style.Green)
		case domain.OutcomeFailed:
			return p.r.NewStyle().Foreground(style.Red)
		default:
			return p.r.NewStyle().Foreground(style.Yellow)
		}
	})
}

func joinOrDash(files []string) string {
	if len(files) == 0 {
		return "-"
	}
	return strings.Join(files, ", ")
}
