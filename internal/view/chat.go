package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"foundrydemo/internal/format"
	"foundrydemo/internal/model"

	"github.com/mattn/go-runewidth"
)

// Speaker is who a chat bubble belongs to. It decides alignment and color.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
	SpeakerReasoning Speaker = "reasoning"
	SpeakerTool      Speaker = "tool"
)

type bubble struct {
	speaker Speaker
	title   string
	lines   []string
}

// replyBubbles lays out a prompt and reply as a conversation: the prompt,
// then each section in order, then the tool runs.
func replyBubbles(prompt string, reply model.Reply) []bubble {
	var bubbles []bubble
	if prompt != "" {
		bubbles = append(bubbles, bubble{speaker: SpeakerUser, title: "User", lines: strings.Split(prompt, "\n")})
	}

	for _, section := range format.Sections(reply) {
		switch section.Kind {
		case format.SectionReasoning:
			lines := section.Lines
			if len(lines) == 0 {
				lines = []string{"(no summary returned)"}
			}
			bubbles = append(bubbles, bubble{speaker: SpeakerReasoning, title: "Reasoning", lines: lines})
		case format.SectionAnswer:
			bubbles = append(bubbles, bubble{speaker: SpeakerAssistant, title: "Assistant", lines: section.Lines})
		}
	}
	if reply.Empty() {
		bubbles = append(bubbles, bubble{speaker: SpeakerAssistant, title: "Assistant", lines: []string{"(no content)"}})
	}

	for _, run := range reply.ToolRuns {
		bubbles = append(bubbles, bubble{speaker: SpeakerTool, title: "Tool · " + run.Name, lines: strings.Split(run.Output, "\n")})
	}
	return bubbles
}

func renderChatTranscript(bubbles []bubble, width int, useColor bool) []string {
	if width <= 0 {
		width = 80
	}
	padding := 2

	lines := make([]string, 0, len(bubbles)*6)
	for idx, b := range bubbles {
		if idx > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, renderChatBubble(b, width, padding, useColor)...)
	}
	return lines
}

func renderChatBubble(b bubble, totalWidth int, padding int, useColor bool) []string {
	maxContentWidth := totalWidth - padding*2 - 10
	if maxContentWidth < 20 {
		if totalWidth > 30 {
			maxContentWidth = totalWidth - 12
		} else {
			maxContentWidth = totalWidth - 8
		}
		if maxContentWidth < 8 {
			maxContentWidth = 8
		}
	}

	content := wrapLines(append([]string{b.title}, b.lines...), maxContentWidth)
	bubbleWidth := contentMaxWidth(content)
	if bubbleWidth > maxContentWidth {
		bubbleWidth = maxContentWidth
	}

	leftPad := computeLeftPad(totalWidth, bubbleWidth, padding, alignmentFor(b.speaker))

	if useColor && len(content) > 0 {
		content[0] = strings.Replace(content[0], b.title, colorize(true, speakerColor(b.speaker), b.title), 1)
	}

	top := fmt.Sprintf("%s╭%s╮", strings.Repeat(" ", leftPad), strings.Repeat("─", bubbleWidth+2))
	bottom := fmt.Sprintf("%s╰%s╯", strings.Repeat(" ", leftPad), strings.Repeat("─", bubbleWidth+2))

	result := []string{top}
	for _, line := range content {
		result = append(result, renderBubbleBodyLine(line, bubbleWidth, leftPad, useColor))
	}
	result = append(result, bottom)
	return result
}

func renderBubbleBodyLine(line string, bubbleWidth int, leftPad int, useColor bool) string {
	displayLen := visibleWidth(line)
	if displayLen > bubbleWidth {
		line = truncateToWidth(line, bubbleWidth)
		displayLen = bubbleWidth
	}
	paddingRight := bubbleWidth - displayLen

	border := "│"
	if useColor {
		border = colorize(true, ansiSeparator, border)
	}

	return fmt.Sprintf("%s%s %s%s %s", strings.Repeat(" ", leftPad), border, line, strings.Repeat(" ", paddingRight), border)
}

func alignmentFor(speaker Speaker) string {
	switch speaker {
	case SpeakerUser:
		return "right"
	case SpeakerReasoning, SpeakerTool:
		return "center"
	default:
		return "left"
	}
}

func computeLeftPad(totalWidth, bubbleWidth, padding int, align string) int {
	maxPad := totalWidth - bubbleWidth - 4
	if maxPad < 0 {
		maxPad = 0
	}

	switch align {
	case "right":
		return maxPad
	case "center":
		center := maxPad / 2
		if center < padding {
			center = padding
		}
		if center > maxPad {
			center = maxPad
		}
		return center
	default:
		if padding > maxPad {
			return maxPad
		}
		return padding
	}
}

func wrapLines(lines []string, width int) []string {
	var out []string
	for _, line := range lines {
		out = append(out, wrapText(line, width)...)
	}
	return out
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	text = strings.TrimRight(text, " ")
	if text == "" {
		return []string{""}
	}
	var out []string
	var current strings.Builder
	currentWidth := 0

	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func contentMaxWidth(lines []string) int {
	max := 0
	for _, line := range lines {
		if w := visibleWidth(line); w > max {
			max = w
		}
	}
	return max
}

func truncateToWidth(text string, width int) string {
	if visibleWidth(text) <= width {
		return text
	}
	var out strings.Builder
	current := 0

	for i := 0; i < len(text); {
		if m := ansiPattern.FindStringIndex(text[i:]); m != nil && m[0] == 0 {
			out.WriteString(text[i : i+m[1]])
			i += m[1]
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		out.WriteRune(r)
		current += rw
		i += size
	}
	return out.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleWidth(text string) int {
	clean := ansiPattern.ReplaceAllString(text, "")
	return runewidth.StringWidth(clean)
}

const (
	ansiReset     = "\x1b[0m"
	ansiSeparator = "\x1b[38;5;240m"
	ansiAssistant = "\x1b[38;5;44m"
	ansiUser      = "\x1b[38;5;220m"
	ansiReasoning = "\x1b[38;5;245m"
	ansiTool      = "\x1b[38;5;207m"
)

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}

func speakerColor(speaker Speaker) string {
	switch speaker {
	case SpeakerAssistant:
		return ansiAssistant
	case SpeakerUser:
		return ansiUser
	case SpeakerReasoning:
		return ansiReasoning
	case SpeakerTool:
		return ansiTool
	default:
		return ansiSeparator
	}
}
