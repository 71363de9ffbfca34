package pipeline

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// BlockKind is the construct a Block was extracted from.
type BlockKind int

const (
	KindCode BlockKind = iota
	KindQuote
)

func (k BlockKind) String() string {
	if k == KindQuote {
		return "quote"
	}
	return "code"
}

// Placeholder prefixes. Tokens are the prefix plus 32 hex digits.
const (
	CodePrefix  = "CODEBLOCK"
	QuotePrefix = "QUOTEBLOCK"
)

var tokenPatterns = map[BlockKind]*regexp.Regexp{
	KindCode:  regexp.MustCompile(CodePrefix + `[0-9a-f]{32}`),
	KindQuote: regexp.MustCompile(QuotePrefix + `[0-9a-f]{32}`),
}

// Prefix returns the placeholder prefix of the kind.
func (k BlockKind) Prefix() string {
	if k == KindQuote {
		return QuotePrefix
	}
	return CodePrefix
}

// TokenPattern matches placeholder tokens of kind.
func TokenPattern(kind BlockKind) *regexp.Regexp {
	return tokenPatterns[kind]
}

// Block is extracted content waiting to be re-injected.
type Block struct {
	Token    string
	Text     string
	Kind     BlockKind
	Language string // canonical lexer name for code, if known
}

// Registry maps placeholder tokens to blocks in insertion order. Each block
// is handed out once.
type Registry struct {
	order  []string
	blocks map[string]Block
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{blocks: make(map[string]Block)}
}

// add records text under a fresh token and returns it.
func (r *Registry) add(kind BlockKind, text, language string) string {
	token := kind.Prefix() + strings.ReplaceAll(uuid.NewString(), "-", "")
	r.order = append(r.order, token)
	r.blocks[token] = Block{Token: token, Text: text, Kind: kind, Language: language}
	return token
}

// Take returns the block for token and removes it.
func (r *Registry) Take(token string) (Block, bool) {
	b, ok := r.blocks[token]
	if ok {
		delete(r.blocks, token)
	}
	return b, ok
}

// Remaining returns the blocks not yet taken, in insertion order.
func (r *Registry) Remaining() []Block {
	var out []Block
	for _, token := range r.order {
		if b, ok := r.blocks[token]; ok {
			out = append(out, b)
		}
	}
	return out
}
