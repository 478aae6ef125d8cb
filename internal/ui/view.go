package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wrap"
)

// View реализует tea.Model интерфейс.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n\n")

	status := m.spinner.View()
	if m.finished {
		status = successStyle("✓")
	}
	fmt.Fprintf(&b, "%s %d/%d files", status, m.processed+m.failed, m.total)
	if m.failed > 0 {
		b.WriteString("  ")
		b.WriteString(errorStyle(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("\n")

	b.WriteString(m.progress.ViewAs(m.Percent()))
	b.WriteString("\n")

	b.WriteString(mutedStyle(fmt.Sprintf("shards %d/%d  elapsed %s", m.shardsDone, m.shards, m.elapsedTime().Round(time.Millisecond))))
	b.WriteString("\n")

	if len(m.failures) > 0 {
		b.WriteString("\n")
		for _, f := range m.failures {
			b.WriteString(errorStyle("✗ "))
			b.WriteString(wrap.String(f, max(20, m.width-2)))
			b.WriteString("\n")
		}
	}

	if !m.finished {
		b.WriteString("\n")
		b.WriteString(mutedStyle("q: stop"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) elapsedTime() time.Duration {
	if m.finished && m.elapsed > 0 {
		return m.elapsed
	}
	return time.Since(m.started)
}
