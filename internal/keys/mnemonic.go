// Package keys provides key material handling for Warden wallets:
// BIP39 mnemonic generation and validation, hierarchical key
// derivation per chain, and private key import.
package keys

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

var (
	// whitespaceRegex matches one or more whitespace characters.
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// numberedListRegex matches numbered list prefixes like "1." "2)" "3:"
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)

	// bulletListRegex matches bullet prefixes like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// wordCountForEntropy maps entropy bit sizes to BIP39 word counts.
//
//nolint:gochecknoglobals // Static BIP39 lookup table
var wordCountForEntropy = map[int]int{
	128: 12,
	160: 15,
	192: 18,
	224: 21,
	256: 24,
}

// GenerateMnemonic creates a new BIP39 mnemonic phrase from fresh entropy.
// entropyBits must be 128, 160, 192, 224, or 256, producing 12, 15, 18,
// 21, or 24 words respectively.
func GenerateMnemonic(entropyBits int) (string, error) {
	if _, ok := wordCountForEntropy[entropyBits]; !ok {
		return "", wardenerr.WithSuggestion(
			wardenerr.WithDetails(wardenerr.ErrInvalidEntropy, map[string]string{
				"entropy_bits": strconv.Itoa(entropyBits),
			}),
			"use 128, 160, 192, 224, or 256 bits of entropy",
		)
	}

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", wardenerr.Wrap(err, "failed to generate entropy")
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", wardenerr.Wrap(err, "failed to encode mnemonic")
	}

	return mnemonic, nil
}

// WordCount returns the number of words a mnemonic generated from
// entropyBits of entropy contains, or 0 if the size is unsupported.
func WordCount(entropyBits int) int {
	return wordCountForEntropy[entropyBits]
}

// ValidateSeedPhrase reports whether the phrase is a valid BIP39 mnemonic
// after normalization. It checks word count, word validity, and checksum.
func ValidateSeedPhrase(phrase string) bool {
	if phrase == "" {
		return false
	}

	normalized := NormalizeSeedPhraseInput(phrase)

	// Early exit: fast word count check before checksum validation
	words := strings.Fields(normalized)
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return false
	}

	return bip39.IsMnemonicValid(normalized)
}

// NormalizeSeedPhraseInput cleans and normalizes seed phrase input by:
// - Converting to lowercase
// - Removing numbered list prefixes (1. 2) 3: etc.)
// - Removing bullet prefixes (- * •)
// - Replacing commas with spaces
// - Trimming leading and trailing whitespace
// - Collapsing multiple whitespace characters to single spaces
func NormalizeSeedPhraseInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// SeedFromMnemonic converts a BIP39 mnemonic phrase to a 64-byte seed.
// The passphrase is optional (can be empty string). The returned seed
// must be zeroed by the caller after use.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	normalized := NormalizeSeedPhraseInput(mnemonic)

	if !bip39.IsMnemonicValid(normalized) {
		err := wardenerr.ErrValidation
		if typos := DetectTypos(normalized); len(typos) > 0 {
			return nil, wardenerr.WithSuggestion(err, FormatTypoSuggestions(typos))
		}
		return nil, err
	}

	return bip39.NewSeed(normalized, passphrase), nil
}

// IsValidWord checks if a word is in the BIP39 English word list.
func IsValidWord(word string) bool {
	word = strings.ToLower(word)
	for _, w := range bip39.GetWordList() {
		if w == word {
			return true
		}
	}
	return false
}

// MaxTypoDistance is the maximum Levenshtein distance to consider a
// suggestion. Words with distance > 2 are too different to suggest.
const MaxTypoDistance = 2

// TypoInfo describes a word that is not in the BIP39 word list and the
// closest valid word, if one is close enough.
type TypoInfo struct {
	// Index is the word position in the phrase (0-based).
	Index int
	// Word is the original (possibly misspelled) word.
	Word string
	// Suggestion is the closest BIP39 word, or empty if none found.
	Suggestion string
	// Distance is the Levenshtein distance to the suggestion.
	Distance int
}

// SuggestWord finds the closest BIP39 word to the input using Levenshtein
// distance. Returns empty string if no word is within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, word := range bip39.GetWordList() {
		dist := levenshtein.ComputeDistance(input, word)
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
		if dist == 0 {
			return word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos scans a seed phrase and returns information about words
// that are not in the BIP39 word list, with suggested corrections.
func DetectTypos(phrase string) []TypoInfo {
	if phrase == "" {
		return nil
	}

	normalized := NormalizeSeedPhraseInput(phrase)
	var typos []TypoInfo

	for i, word := range strings.Fields(normalized) {
		if IsValidWord(word) {
			continue
		}
		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}
		typos = append(typos, TypoInfo{
			Index:      i,
			Word:       word,
			Suggestion: suggestion,
			Distance:   distance,
		})
	}

	return typos
}

// FormatTypoSuggestions formats typo information into human-readable
// suggestions, one per line.
func FormatTypoSuggestions(typos []TypoInfo) string {
	if len(typos) == 0 {
		return ""
	}

	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		// Word position is 1-indexed for human readability
		fmt.Fprintf(&b, "Word %d: '%s'", typo.Index+1, typo.Word)
		if typo.Suggestion != "" {
			fmt.Fprintf(&b, " - did you mean '%s'?", typo.Suggestion)
		} else {
			b.WriteString(" is not a valid BIP39 word")
		}
	}
	return b.String()
}
