// Package chunker splits raw document text into token-bounded segments
// suitable for embedding.
package chunker

import (
	"strings"

	"github.com/veritaslabs/veritas/internal/domain"
)

// charsPerToken is a conservative estimate of how many characters one
// model token covers. The hard ceiling derived from it errs on the side
// of producing smaller chunks rather than provider rejections.
const charsPerToken = 4

// Config controls chunking behavior.
type Config struct {
	TargetSize int // soft chunk size in characters
	Overlap    int // characters carried over between adjacent chunks
	MaxTokens  int // hard per-chunk token ceiling
}

// DefaultConfig provides sane defaults for chunking.
func DefaultConfig() Config {
	return Config{
		TargetSize: 1000,
		Overlap:    200,
		MaxTokens:  512,
	}
}

func (c Config) normalized() Config {
	if c.TargetSize <= 0 {
		c.TargetSize = DefaultConfig().TargetSize
	}
	if c.Overlap < 0 {
		c.Overlap = 0
	}
	if c.Overlap >= c.TargetSize {
		c.Overlap = c.TargetSize / 4
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultConfig().MaxTokens
	}
	return c
}

// EstimateTokens returns the estimated token count for text.
func EstimateTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// Chunk splits text into token-bounded chunks tagged with sourceID.
// Empty input yields no chunks.
func Chunk(text string, cfg Config, sourceID string) []domain.Chunk {
	texts := Split(text, cfg)
	if len(texts) == 0 {
		return nil
	}
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, domain.Chunk{
			Text:     t,
			Index:    i,
			SourceID: sourceID,
		})
	}
	return chunks
}

// Split splits text into chunk texts: paragraphs are accumulated greedily
// up to TargetSize with Overlap characters carried across boundaries, then
// every chunk is re-validated against the token ceiling and re-split at
// sentence and finally word granularity if still oversized.
func Split(text string, cfg Config) []string {
	cfg = cfg.normalized()

	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}

	paragraphs := splitParagraphs(clean)

	var chunks []string
	var buf string
	for _, para := range paragraphs {
		if buf == "" {
			buf = para
			continue
		}
		if len([]rune(buf))+2+len([]rune(para)) > cfg.TargetSize {
			chunks = append(chunks, buf)
			buf = overlapTail(buf, cfg.Overlap)
			if buf != "" {
				buf += "\n\n" + para
			} else {
				buf = para
			}
			continue
		}
		buf += "\n\n" + para
	}
	if strings.TrimSpace(buf) != "" {
		chunks = append(chunks, buf)
	}

	// Hard ceiling pass: anything the paragraph pass left oversized gets
	// re-split at finer granularity.
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if EstimateTokens(c) <= cfg.MaxTokens {
			out = append(out, c)
			continue
		}
		out = append(out, SplitOversized(c, cfg.MaxTokens)...)
	}
	return out
}

// SplitOversized splits text that exceeds maxTokens, first at sentence
// boundaries and then at word boundaries. Word-level splitting always
// shrinks the segment, which guarantees termination. A single word longer
// than the ceiling is unsplittable and is emitted as-is.
func SplitOversized(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultConfig().MaxTokens
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if EstimateTokens(text) <= maxTokens {
		return []string{text}
	}

	sentences := splitSentences(text)
	packed := packUnits(sentences, maxTokens, " ")

	out := make([]string, 0, len(packed))
	for _, p := range packed {
		if EstimateTokens(p) <= maxTokens {
			out = append(out, p)
			continue
		}
		words := strings.Fields(p)
		out = append(out, packUnits(words, maxTokens, " ")...)
	}
	return out
}

// packUnits greedily joins units with sep without exceeding maxTokens per
// segment. A single unit over the ceiling is emitted on its own.
func packUnits(units []string, maxTokens int, sep string) []string {
	var out []string
	var buf string
	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if buf == "" {
			buf = u
			continue
		}
		if EstimateTokens(buf+sep+u) > maxTokens {
			out = append(out, buf)
			buf = u
			continue
		}
		buf += sep + u
	}
	if buf != "" {
		out = append(out, buf)
	}
	return out
}

// splitParagraphs splits on blank-line boundaries.
func splitParagraphs(text string) []string {
	lines := strings.Split(text, "\n")
	var paragraphs []string
	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(cur, "\n"))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
		cur = cur[:0]
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return paragraphs
}

// splitSentences splits text after terminal punctuation followed by
// whitespace. It is deliberately simple; mis-splits only cost slightly
// uneven chunk sizes.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Consume trailing punctuation runs like "?!" or "...".
		for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
			i++
		}
		if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\n' && runes[i+1] != '\t' {
			continue
		}
		s := strings.TrimSpace(string(runes[start : i+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if start < len(runes) {
		s := strings.TrimSpace(string(runes[start:]))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// overlapTail returns the last n runes of text, trimmed to start on a word
// boundary so the seeded overlap never begins mid-word.
func overlapTail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return strings.TrimSpace(text)
	}
	tail := string(runes[len(runes)-n:])
	if idx := strings.IndexAny(tail, " \n\t"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}
