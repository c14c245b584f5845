package usecase

import (
	"regexp"
	"strings"
)

var (
	markdownBoldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	markdownItalicRe = regexp.MustCompile(`[*_]([^*_]+)[*_]`)
	markdownCodeRe   = regexp.MustCompile("`([^`]+)`")
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// tickerSpokenForm maps a handful of common quote symbols to the way a TTS
// voice should read them out loud. Unknown tickers pass through unchanged.
var tickerSpokenForm = map[string]string{
	"BTCUSDT": "Bitcoin",
	"ETHUSDT": "Ethereum",
	"SOLUSDT": "Solana",
	"XRPUSDT": "Ripple",
	"BNBUSDT": "Binance Coin",
	"ADAUSDT": "Cardano",
}

// TextNormalizer prepares LLM commentary for speech synthesis: strip
// markdown, spell out tickers and currency symbols, and collapse
// whitespace so the TTS voice doesn't read out formatting characters.
type TextNormalizer struct{}

func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

func (n *TextNormalizer) Normalize(text string) string {
	out := stripMarkdown(text)

	for ticker, spoken := range tickerSpokenForm {
		out = strings.ReplaceAll(out, ticker, spoken)
	}

	out = strings.ReplaceAll(out, "$", "dollars ")
	out = strings.ReplaceAll(out, "%", " percent")

	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// stripMarkdown removes bold/italic/code markers and ``` fences (the
// fenced content itself is kept), mirroring the shape of stripMarkdownCodeBlock seen in LLM response
// post-processing, but applied to free-form commentary rather than a JSON
// envelope.
func stripMarkdown(text string) string {
	text = strings.ReplaceAll(text, "```", "")
	text = markdownBoldRe.ReplaceAllString(text, "$1")
	text = markdownItalicRe.ReplaceAllString(text, "$1")
	text = markdownCodeRe.ReplaceAllString(text, "$1")
	return text
}
