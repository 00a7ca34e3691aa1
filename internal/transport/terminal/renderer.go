package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/toddlers/naws/internal/domain"
	"github.com/toddlers/naws/internal/textnorm"
)

// Options controls what the Renderer prints and how.
type Options struct {
	// Color enables ANSI styling. Turning it off changes no visible text.
	Color           bool
	ShowDescription bool
	FullDescription bool
	JSON            bool
}

// Renderer writes announcements to a terminal (or any writer).
type Renderer struct {
	w      io.Writer
	opts   Options
	styles styles
}

type styles struct {
	bullet          *color.Color
	link            *color.Color
	title           *color.Color
	position        *color.Color
	date            *color.Color
	categoriesIcon  *color.Color
	categories      *color.Color
	descriptionIcon *color.Color
	description     *color.Color
}

// newStyles sets the color mode on every style explicitly, so the package level
// color.NoColor switch never affects the output.
func newStyles(enabled bool) styles {
	s := styles{
		bullet:          color.New(color.FgHiYellow, color.Bold),
		link:            color.New(color.FgBlue, color.Underline),
		title:           color.New(color.FgHiWhite, color.Bold),
		position:        color.New(color.Faint),
		date:            color.New(color.FgCyan),
		categoriesIcon:  color.New(color.FgMagenta),
		categories:      color.New(color.FgMagenta),
		descriptionIcon: color.New(color.FgYellow),
		description:     color.New(color.FgWhite),
	}
	for _, c := range []*color.Color{
		s.bullet, s.link, s.title, s.position, s.date,
		s.categoriesIcon, s.categories, s.descriptionIcon, s.description,
	} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// NewRenderer creates a renderer that writes to w.
// Color styles are resolved once here from opts.Color, so the renderer never consults
// the environment or the global color.NoColor switch.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	return &Renderer{
		w:      w,
		opts:   opts,
		styles: newStyles(opts.Color),
	}
}

// Render prints the announcements selected for display. total is the number of
// announcements that matched the filter; when it exceeds len(items) a closing line
// reports how many more exist. In JSON mode only the items are printed.
func (r *Renderer) Render(items []domain.Announcement, total int) error {
	if r.opts.JSON {
		return r.renderJSON(items)
	}
	return r.renderText(items, total)
}

func (r *Renderer) renderJSON(items []domain.Announcement) error {
	if items == nil {
		items = []domain.Announcement{}
	}
	enc := json.NewEncoder(r.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("failed to encode announcements: %w", err)
	}
	return nil
}

func (r *Renderer) renderText(items []domain.Announcement, total int) error {
	lw := &lineWriter{w: r.w}
	for i, item := range items {
		if i > 0 {
			lw.println("")
		}
		r.renderAnnouncement(lw, item, i+1, len(items))
	}
	if more := total - len(items); more > 0 {
		if len(items) > 0 {
			lw.println("")
		}
		lw.println(fmt.Sprintf("...and %d more announcements", more))
	}
	return lw.err
}

func (r *Renderer) renderAnnouncement(lw *lineWriter, a domain.Announcement, index, count int) {
	st := r.styles
	lw.println(st.bullet.Sprint("📢") + " " + st.link.Sprintf("[%s]", a.Link))
	lw.println("   " + st.title.Sprint(a.Title) + " " + st.position.Sprintf("(%d/%d)", index, count))
	if a.PublicationDate != nil && strings.TrimSpace(*a.PublicationDate) != "" {
		lw.println("  " + st.date.Sprint(FormatDate(*a.PublicationDate)))
	}
	if len(a.Categories) > 0 {
		lw.println("  " + st.categoriesIcon.Sprint("🏷️") + " " + st.categories.Sprint(strings.Join(a.Categories, ", ")))
	}
	if r.opts.ShowDescription {
		if text := textnorm.Description(a.Description, r.opts.FullDescription); text != "" {
			lw.println("  " + st.descriptionIcon.Sprint("📄") + " " + st.description.Sprint(text))
		}
	}
}

// lineWriter remembers the first write error and drops everything after it.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) println(line string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, line+"\n")
}
