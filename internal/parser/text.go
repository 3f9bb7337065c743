package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// TextParser handles plain text files. Blank-line separated paragraphs become
// <p> blocks and single newlines become <br>.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		content strings.Builder
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			writeBlock(&content, "p", strings.Join(current, "\n"))
			current = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return doctree.Document{}, err
	}

	return doctree.Document{
		Title:   titleFromFilename(filename),
		Content: content.String(),
	}, nil
}
