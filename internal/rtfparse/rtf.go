package rtfparse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// line is one rendered paragraph of the source document.
type line struct {
	n    int // source line the paragraph starts on, 1-based
	text string
	bold bool
}

// ReadLines splits r into raw lines. The tabular list has very long
// paragraphs, so the scanner buffer is raised well above the default.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []string
	for sc.Scan() {
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading rtf: %w", err)
	}
	return out, nil
}

var unicodeFixes = strings.NewReplacer(
	`\'e8`, "è",
	`\'e9`, "é",
	`\'e4`, "ä",
	`\'f6`, "ö",
	`\'fc`, "ü",
)

// fixUnicode replaces the hex escapes the document uses for accented letters.
func fixUnicode(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = unicodeFixes.Replace(l)
	}
	return out
}

// startsParagraph reports whether s opens with the \par control word. \pard
// and friends do not count.
func startsParagraph(s string) bool {
	if !strings.HasPrefix(s, `\par`) {
		return false
	}
	return len(s) == 4 || !isLetter(s[4])
}

// joinLines folds continuation lines into their paragraph and renders each
// paragraph to plain text. Anything before the first paragraph is header and
// is dropped, as are paragraphs with no text.
func joinLines(raw []string) []line {
	var out []line
	var cur strings.Builder
	start := 0
	flush := func() {
		if start == 0 {
			return
		}
		text, bold := render(cur.String())
		if text != "" {
			out = append(out, line{n: start, text: text, bold: bold})
		}
		cur.Reset()
	}
	for i, l := range raw {
		if startsParagraph(l) {
			flush()
			start = i + 1
		} else if start == 0 {
			continue
		}
		cur.WriteString(l)
	}
	flush()
	return out
}

// render strips RTF markup from a paragraph. \tab becomes a space, escaped
// braces and backslashes are kept literally, everything else is dropped.
// bold reports whether \b was in effect when the first visible character
// was written.
func render(raw string) (text string, bold bool) {
	var b strings.Builder
	on, seen := false, false
	emit := func(ch byte) {
		if !seen && ch != ' ' {
			seen, bold = true, on
		}
		b.WriteByte(ch)
	}

	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '{' || ch == '}':
			i++
		case ch == '\\' && i+1 < len(raw) && isLetter(raw[i+1]):
			j := i + 1
			for j < len(raw) && isLetter(raw[j]) {
				j++
			}
			word := raw[i+1 : j]
			p := j
			if p < len(raw) && raw[p] == '-' {
				p++
			}
			for p < len(raw) && isDigit(raw[p]) {
				p++
			}
			param := raw[j:p]
			if p < len(raw) && raw[p] == ' ' {
				p++
			}
			switch word {
			case "tab":
				emit(' ')
			case "b":
				on = param != "0"
			case "plain":
				on = false
			}
			i = p
		case ch == '\\' && i+1 < len(raw):
			switch nx := raw[i+1]; nx {
			case '\\', '{', '}':
				emit(nx)
				i += 2
			case '~':
				emit(' ')
				i += 2
			case '\'':
				i = min(i+4, len(raw))
			default:
				i += 2
			}
		case ch == '\\':
			i++
		case ch == '\t':
			emit(' ')
			i++
		default:
			emit(ch)
			i++
		}
	}
	return strings.Join(strings.Fields(b.String()), " "), bold
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
