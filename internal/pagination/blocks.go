package pagination

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/pagewright/internal/doctree"
	"golang.org/x/net/html"
)

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// maxTokenBytes bounds a single tag or text run. Larger tokens make the
// tokenizer fail, and the content is then paginated as one page.
var maxTokenBytes = 4 << 20

// SplitBlocks scans content for top-level element boundaries and returns one
// span per top-level element, in document order.
//
// Text, comments and stray end tags outside any element are attached to the
// start of the following block, or to the end of the last block when no element
// follows. Every block but the last therefore ends in a tag's closing '>', and
// the returned Markup fields always concatenate back to content. A nil slice
// means content holds no top-level element at all.
func SplitBlocks(content string) ([]doctree.Block, error) {
	z := html.NewTokenizer(strings.NewReader(content))
	z.SetMaxBuf(maxTokenBytes)

	var (
		blocks     []doctree.Block
		open       []string // Tag stack of the current top-level element
		offset     int
		blockStart = -1
		looseStart = -1
		blockTag   string
	)

	closeBlock := func(end int) {
		start := blockStart
		if looseStart >= 0 {
			start = looseStart
			looseStart = -1
		}
		blocks = append(blocks, doctree.Block{
			Tag:    blockTag,
			Markup: content[start:end],
			Offset: start,
		})
		blockStart = -1
		open = open[:0]
	}

	// attachLoose holds top-level loose text for the next block.
	attachLoose := func() {
		if looseStart < 0 {
			looseStart = offset
		}
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenize markup at offset %d: %w", offset, err)
			}
			break
		}
		n := len(z.Raw())
		end := offset + n

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if blockStart < 0 {
				blockStart = offset
				blockTag = tag
				if voidElements[tag] {
					closeBlock(end)
				} else {
					open = append(open, tag)
				}
			} else if !voidElements[tag] {
				open = append(open, tag)
			}

		case html.SelfClosingTagToken:
			if blockStart < 0 {
				name, _ := z.TagName()
				blockStart = offset
				blockTag = string(name)
				closeBlock(end)
			}

		case html.EndTagToken:
			if blockStart < 0 {
				attachLoose()
				break
			}
			name, _ := z.TagName()
			tag := string(name)
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == tag {
					open = open[:i]
					break
				}
			}
			if len(open) == 0 {
				closeBlock(end)
			}

		default:
			if blockStart < 0 {
				attachLoose()
			}
		}

		offset = end
	}

	// An element left open at end of input runs to the end of content.
	if blockStart >= 0 {
		closeBlock(len(content))
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	last := &blocks[len(blocks)-1]
	if last.Offset+len(last.Markup) < len(content) {
		last.Markup = content[last.Offset:]
	}
	return blocks, nil
}
