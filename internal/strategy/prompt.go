package strategy

import (
	"fmt"
	"strings"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

const systemPrompt = `You are a puzzle writer for a daily quiz read by a general audience.

Rules:
- Write in the requested language.
- Keep everything family friendly and suitable for all ages.
- Use plain text. No Markdown, no emojis, no surrounding quotes.
- When asked for a single line, reply with that line only.
- When asked for JSON, reply with one JSON object and nothing else.
- Never reveal the answer in a title, subtitle, branding line or hint.`

const (
	wordleContract = `{
  "title": "string",
  "answer": "a 5-letter word",
  "solution": "string",
  "variables": {
    "subtitle": "string",
    "hint": "string",
    "description": "string",
    "theme": "string",
    "wordLength": 5,
    "maxAttempts": 6,
    "correctHint": "string",
    "misplacedHint": "string",
    "wrongHint": "string",
    "brandingText": "string"
  }
}`

	sequenceContract = `{
  "title": "string",
  "answer": "the next number in the sequence, as a string",
  "solution": "string",
  "variables": {
    "subtitle": "string",
    "sequence": [array of at least 5 numbers],
    "hint": "string",
    "description": "string",
    "theme": "string",
    "brandingText": "string"
  }
}`

	rhymeContract = `{
  "title": "string",
  "answer": "string",
  "solution": "string",
  "variables": {
    "subtitle": "string",
    "rhymeWord": "string",
    "clue": "string",
    "hint": "string",
    "description": "string",
    "theme": "string",
    "brandingText": "string"
  }
}`

	conceptContract = `{
  "title": "string",
  "answer": "string",
  "solution": "string",
  "variables": {
    "subtitle": "string",
    "words": [array of 4 strings],
    "hint": "string",
    "description": "string",
    "theme": "string",
    "brandingText": "string"
  }
}`

	defaultContract = `{
  "title": "string",
  "answer": "string",
  "solution": "string",
  "variables": {
    "subtitle": "string",
    "hint": "string",
    "description": "string",
    "theme": "string",
    "brandingText": "string"
  }
}`
)

// header is the common preamble of every user message.
func header(gc puzzle.GenerationContext, label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle type: %s\n", typeName(gc.Type))
	fmt.Fprintf(&b, "Puzzle: %s\n", label)
	fmt.Fprintf(&b, "Language: %s\n", gc.Language)
	fmt.Fprintf(&b, "Theme: %s\n", themeOrGeneral(gc.Theme))
	if title := gc.String(puzzle.OptTitle); title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	return b.String()
}

func typeName(t puzzle.Type) string {
	if t == "" {
		return "GENERAL"
	}
	return string(t)
}

func themeOrGeneral(theme string) string {
	if theme = strings.TrimSpace(theme); theme == "" {
		return "general knowledge"
	}
	return theme
}

func titlePrompt(gc puzzle.GenerationContext, label string) string {
	return header(gc, label) +
		"\nWrite a short, catchy title of at most six words for this puzzle. Reply with the title only."
}

func subtitlePrompt(gc puzzle.GenerationContext, label string) string {
	return header(gc, label) +
		"\nWrite a one-sentence subtitle that invites readers to play. Reply with the subtitle only."
}

func brandingPrompt(gc puzzle.GenerationContext, label string) string {
	return header(gc, label) +
		"\nWrite a short branding line of at most eight words to show under the puzzle. Reply with the line only."
}

func contentPrompt(gc puzzle.GenerationContext, label, task, contract string, maxAvoid int) string {
	var b strings.Builder
	b.WriteString(header(gc, label))
	b.WriteString("\n")
	b.WriteString(task)
	b.WriteString("\n\nRespond with a single JSON object in exactly this shape:\n")
	b.WriteString(contract)
	b.WriteString("\n\nDo not reuse any of these recent answers:\n")
	b.WriteString(buildAvoid(gc.Strings(puzzle.OptAvoid), maxAvoid))
	return b.String()
}

// facts lists what a hint or solution prompt needs to know about the
// generated puzzle.
func facts(gc puzzle.GenerationContext, extra ...string) string {
	var b strings.Builder
	if content := gc.String(puzzle.OptContent); content != "" {
		fmt.Fprintf(&b, "Puzzle text: %s\n", content)
	}
	for _, e := range extra {
		if e != "" {
			b.WriteString(e)
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "Answer: %s\n", gc.String(puzzle.OptAnswer))
	return b.String()
}

func hintPrompt(gc puzzle.GenerationContext, label string, extra ...string) string {
	return header(gc, label) + facts(gc, extra...) +
		"\nWrite one short hint that nudges the player toward the answer without giving it away. Reply with the hint only."
}

func solutionPrompt(gc puzzle.GenerationContext, label, task string, extra ...string) string {
	return header(gc, label) + facts(gc, extra...) + "\n" + task
}

// buildAvoid formats recent answers for the prompt, keeping the newest max.
// Returns "None" if there are none.
func buildAvoid(answers []string, max int) string {
	if len(answers) == 0 {
		return "None"
	}
	if max > 0 && len(answers) > max {
		answers = answers[:max]
	}

	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	return strings.TrimRight(b.String(), "\n")
}
