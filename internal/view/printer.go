// Package view writes example output to the terminal, either as labeled text
// sections or as chat bubbles.
package view

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"foundrydemo/internal/format"
	"foundrydemo/internal/model"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Output formats accepted by Options.Format.
const (
	FormatText = "text"
	FormatChat = "chat"
)

// Options defines the configurable parameters of a Printer.
type Options struct {
	Format       string
	Wrap         int
	UsageStyle   string
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
	OutFile      *os.File
}

// Turn is one prompt and the reply it produced.
type Turn struct {
	Label      string
	Prompt     string
	UsageTitle string
	Reply      model.Reply
}

// Printer writes headers, replies and JSON dumps in the configured format.
type Printer struct {
	out    io.Writer
	format string
	color  bool
	width  int
	render format.Options
}

// NewPrinter validates opts and resolves color and width.
func NewPrinter(opts Options) (*Printer, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	mode := strings.ToLower(opts.Format)
	if mode == "" {
		mode = FormatText
	}
	if mode != FormatText && mode != FormatChat {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	usageStyle := strings.ToLower(opts.UsageStyle)
	if usageStyle == "" {
		usageStyle = format.UsageStyleText
	}
	if usageStyle != format.UsageStyleText && usageStyle != format.UsageStyleTable {
		return nil, fmt.Errorf("unsupported usage style: %s", opts.UsageStyle)
	}
	if opts.Wrap < 0 {
		return nil, fmt.Errorf("wrap width must not be negative: %d", opts.Wrap)
	}

	color := resolveColorChoice(opts)
	p := &Printer{
		out:    opts.Out,
		format: mode,
		color:  color,
		render: format.Options{
			Wrap:       opts.Wrap,
			Color:      color,
			UsageStyle: usageStyle,
		},
	}
	if mode == FormatChat {
		p.width = determineWidth(opts.OutFile, opts.Wrap)
	}
	return p, nil
}

// Header writes the run title.
func (p *Printer) Header(title string) error {
	return format.WriteHeader(p.out, title)
}

// Done writes the run trailer.
func (p *Printer) Done() error {
	_, err := fmt.Fprintln(p.out, "\nDone.")
	return err
}

// Turn writes one reply. The prompt is only shown in chat format.
func (p *Printer) Turn(turn Turn) error {
	opts := p.render
	opts.UsageTitle = turn.UsageTitle

	if p.format == FormatText {
		return format.WriteReply(p.out, turn.Label, turn.Reply, opts)
	}

	var b strings.Builder
	b.WriteString(format.Banner(turn.Label, p.color))
	b.WriteString("\n")
	for _, line := range renderChatTranscript(replyBubbles(turn.Prompt, turn.Reply), p.width, p.color) {
		b.WriteString(line + "\n")
	}
	b.WriteString(format.RenderUsage(turn.Reply.Usage, opts))
	b.WriteString("\n")
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Raw writes a labeled, indented response body.
func (p *Printer) Raw(label string, raw []byte) error {
	return format.WriteRawResponse(p.out, label, raw, p.color)
}

// JSON writes v as an indented JSON section.
func (p *Printer) JSON(title string, v any) error {
	return format.WriteJSONSection(p.out, title, v, p.color)
}

func determineWidth(out *os.File, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

func resolveColorChoice(opts Options) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
