package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/state"
)

// resultLine is one label/value row of the result pane.
type resultLine struct {
	label string
	value string
}

// describeError names the failure class of a fetch error.
func describeError(err error) string {
	var (
		ctErr     *cataas.ContentTypeError
		statusErr *cataas.StatusError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, cataas.ErrFormatMisuse):
		return "Format misuse"
	case errors.As(err, &ctErr):
		return "Content type mismatch"
	case errors.Is(err, cataas.ErrSchema):
		return "Schema validation failed"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	default:
		return "Request failed"
	}
}

// resultLines lists what the tracker for mode currently holds.
func (m Model) resultLines(now time.Time) (state.Status, []resultLine, error) {
	if m.session == nil {
		return state.StatusIdle, nil, nil
	}
	switch m.mode {
	case cataas.ModeHTML:
		snap := m.session.HTML.Snapshot()
		return snap.Status, htmlLines(snap, now), snap.Err
	case cataas.ModeJSON:
		snap := m.session.JSON.Snapshot()
		return snap.Status, recordLines(snap, now), snap.Err
	default:
		snap := m.session.Image.Snapshot()
		var lines []resultLine
		if snap.HasValue && snap.Value != nil {
			img := snap.Value.Image()
			lines = append(lines,
				resultLine{"url", img.URL},
				resultLine{"type", img.ContentType},
				resultLine{"detected", img.Detected},
				resultLine{"size", humanize.Bytes(uint64(len(img.Data)))},
				resultLine{"file", snap.Value.URL()},
			)
		}
		return snap.Status, appendUpdated(lines, snap.UpdatedAt, now), snap.Err
	}
}

func htmlLines(snap state.Snapshot[*cataas.HTMLCard], now time.Time) []resultLine {
	var lines []resultLine
	if snap.HasValue && snap.Value != nil {
		card := snap.Value
		lines = append(lines,
			resultLine{"url", card.URL},
			resultLine{"id", card.CataasID},
			resultLine{"image", card.ImageURL},
			resultLine{"markup", strings.Join(strings.Fields(card.Markup), " ")},
		)
	}
	return appendUpdated(lines, snap.UpdatedAt, now)
}

func recordLines(snap state.Snapshot[*cataas.Record], now time.Time) []resultLine {
	var lines []resultLine
	if snap.HasValue && snap.Value != nil {
		rec := snap.Value
		size := "unknown"
		if rec.Size != nil {
			size = humanize.Bytes(uint64(*rec.Size))
		}
		tags := "none"
		if len(rec.Tags) > 0 {
			tags = strings.Join(rec.Tags, ", ")
		}
		lines = append(lines,
			resultLine{"id", rec.ID},
			resultLine{"mimetype", rec.Mimetype},
			resultLine{"size", size},
			resultLine{"tags", tags},
			resultLine{"created", humanize.RelTime(rec.CreatedAt, now, "ago", "from now")},
		)
		if !rec.UpdatedAt.IsZero() {
			lines = append(lines, resultLine{"updated", humanize.RelTime(rec.UpdatedAt, now, "ago", "from now")})
		}
	}
	return appendUpdated(lines, snap.UpdatedAt, now)
}

func appendUpdated(lines []resultLine, at, now time.Time) []resultLine {
	if at.IsZero() {
		return lines
	}
	return append(lines, resultLine{"fetched", humanize.RelTime(at, now, "ago", "from now")})
}

// renderResult draws the result pane for the current mode.
func (m Model) renderResult(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	inner := width - 4

	status, lines, err := m.resultLines(time.Now())

	var b strings.Builder
	b.WriteString(bg.FillLine(
		bg.Render(strings.ToUpper(status.String()), styles.StatusStyle(status))+bg.Space()+
			bg.Render(m.mode.String()+" mode", styles.MutedText), inner))

	if m.session != nil && status == state.StatusIdle && len(lines) == 0 {
		b.WriteString("\n")
		b.WriteString(bg.FillLine(bg.Render("Press r to fetch a cat", styles.FaintText), inner))
	}

	if err != nil {
		b.WriteString("\n")
		b.WriteString(bg.FillLine(bg.Render(describeError(err), styles.DangerText), inner))
		b.WriteString("\n")
		b.WriteString(bg.FillLine(bg.Render(truncate(err.Error(), inner), styles.Text), inner))
	}

	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(bg.FillLine(
			bg.Render(padRight(line.label, 10), styles.MutedText)+
				bg.Render(truncateMiddle(line.value, inner-10), styles.Text), inner))
	}

	if req, reqErr := m.form.Request(); reqErr == nil && m.domain != "" {
		b.WriteString("\n\n")
		b.WriteString(bg.FillLine(bg.Render("next", styles.FaintText), inner))
		b.WriteString("\n")
		b.WriteString(bg.FillLine(bg.Render(truncateMiddle(cataas.BuildURL(m.domain, req.Path, req.Query), inner), styles.AccentText), inner))
	}

	return m.renderBox("Result", b.String(), width, height, false)
}
