// Package format renders model replies as labeled, line-oriented terminal text.
package format

import (
	"fmt"
	"io"
	"strings"

	"foundrydemo/internal/model"

	"github.com/mattn/go-runewidth"
)

// RuleWidth is the width of the "=" rules around banners and headers.
const RuleWidth = 60

// Usage styles accepted by Options.UsageStyle.
const (
	UsageStyleText  = "text"
	UsageStyleTable = "table"
)

const (
	headingReasoning   = "--- Reasoning Summary ---"
	headingNoReasoning = "--- Reasoning (no summary returned) ---"
	headingAnswer      = "--- Answer ---"
	noContent          = "  (no content)"
	toolOutputLimit    = 120
)

// Options controls how a reply is rendered.
type Options struct {
	// Wrap wraps answer and summary text at this display width; 0 disables.
	Wrap       int
	Color      bool
	UsageStyle string
	// UsageTitle replaces "Token Usage" in the usage heading.
	UsageTitle string
}

// SectionKind tags a rendered section.
type SectionKind string

const (
	SectionReasoning SectionKind = "reasoning"
	SectionAnswer    SectionKind = "answer"
)

// Section is one headed part of a reply body.
type Section struct {
	Kind    SectionKind
	Heading string
	Lines   []string
}

// Sections returns the reasoning and answer sections of a reply in block
// order. Blocks of unknown kinds produce nothing.
//
// Items-form reasoning gets one section per block, or a "no summary" section
// when the block has no text. Blocks-form reasoning gets one section per
// non-empty fragment and nothing for an empty block.
func Sections(reply model.Reply) []Section {
	if len(reply.Blocks) == 0 {
		if reply.Plain == "" {
			return nil
		}
		return []Section{answerSection(reply.Plain)}
	}

	var sections []Section
	for _, block := range reply.Blocks {
		switch block.Kind {
		case model.KindReasoning:
			if reply.Form == model.FormBlocks {
				for _, part := range block.Summary {
					if part.Text == nil || *part.Text == "" {
						continue
					}
					sections = append(sections, Section{Kind: SectionReasoning, Heading: headingReasoning, Lines: strings.Split(*part.Text, "\n")})
				}
				continue
			}
			var lines []string
			for _, part := range block.Summary {
				if part.Text == nil || *part.Text == "" {
					continue
				}
				lines = append(lines, strings.Split(*part.Text, "\n")...)
			}
			if len(lines) == 0 {
				sections = append(sections, Section{Kind: SectionReasoning, Heading: headingNoReasoning})
				continue
			}
			sections = append(sections, Section{Kind: SectionReasoning, Heading: headingReasoning, Lines: lines})
		case model.KindText:
			sections = append(sections, answerSection(block.Text))
		case model.KindMessage:
			for _, part := range block.Parts {
				if part.Text == nil {
					continue
				}
				sections = append(sections, answerSection(*part.Text))
			}
		}
	}
	return sections
}

func answerSection(text string) Section {
	return Section{Kind: SectionAnswer, Heading: headingAnswer, Lines: strings.Split(text, "\n")}
}

// RenderReply returns the formatted reply. The result depends only on its
// arguments.
func RenderReply(label string, reply model.Reply, opts Options) string {
	var b strings.Builder
	b.WriteString(Banner(label, opts.Color))

	sections := Sections(reply)
	if reply.Empty() {
		b.WriteString(noContent + "\n")
	}
	for _, section := range sections {
		b.WriteString("\n" + heading(section.Heading, opts.Color) + "\n")
		for _, line := range section.Lines {
			for _, wrapped := range wrapLine(line, opts.Wrap) {
				b.WriteString(wrapped + "\n")
			}
		}
	}

	b.WriteString(RenderUsage(reply.Usage, opts))

	if len(reply.ToolRuns) > 0 {
		title := fmt.Sprintf("--- Tools Used (%d call(s)) ---", len(reply.ToolRuns))
		b.WriteString("\n" + heading(title, opts.Color) + "\n")
		for _, run := range reply.ToolRuns {
			fmt.Fprintf(&b, "  [%s] -> %s\n", run.Name, truncateRunes(run.Output, toolOutputLimit))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// WriteReply writes the formatted reply to w.
func WriteReply(w io.Writer, label string, reply model.Reply, opts Options) error {
	_, err := io.WriteString(w, RenderReply(label, reply, opts))
	return err
}

// Banner returns a label framed by "=" rules, preceded by a blank line.
func Banner(label string, color bool) string {
	rule := strings.Repeat("=", RuleWidth)
	return fmt.Sprintf("\n%s\n  %s\n%s\n", rule, colorize(color, ansiBold, label), rule)
}

// WriteHeader writes a run title underlined by a "=" rule.
func WriteHeader(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", RuleWidth))
	return err
}

func heading(text string, color bool) string {
	return colorize(color, ansiHeading, text)
}

// wrapLine breaks text at existing spaces so that each line fits width. Runs
// of spaces inside a line are kept; the run at a break is dropped and the
// continuation line repeats the leading indent.
func wrapLine(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}

	rest := strings.TrimLeft(text, " ")
	indent := text[:len(text)-len(rest)]

	var lines []string
	current := indent
	for rest != "" {
		trimmed := strings.TrimLeft(rest, " ")
		gap := rest[:len(rest)-len(trimmed)]
		if trimmed == "" {
			break
		}
		end := strings.IndexByte(trimmed, ' ')
		if end < 0 {
			end = len(trimmed)
		}
		word := trimmed[:end]
		rest = trimmed[end:]

		if current != indent && runewidth.StringWidth(current+gap+word) > width {
			lines = append(lines, current)
			current = indent + word
			continue
		}
		current += gap + word
	}
	return append(lines, current)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1;97m"
	ansiHeading = "\x1b[38;5;44m"
)

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}
