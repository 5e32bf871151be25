package mnemonic

// WordList is the word-to-index mapping used by the mnemonic codec. It is
// an interface (rather than a bare slice) so a future caller can swap in a
// different language's word list without touching the encode/decode
// arithmetic — mnemonic localization itself is out of scope for this
// module, but the extension point costs nothing.
type WordList interface {
	// Size is the word count N used by the encode/decode arithmetic.
	Size() int
	// WordAt returns the word at index i. Panics if i is out of range.
	WordAt(i int) string
	// WordIndex returns the index of word, or -1 if it is not present.
	WordIndex(word string) int
}

// WordCount is the number of data words a 32-byte secret encodes to,
// before the trailing checksum word.
const WordCount = 24

// prefixLen is the number of leading characters of each word used to
// compute the checksum word, matching the reference implementation's
// English word-list unique-prefix length.
const prefixLen = 3

type listWordList struct {
	words []string
	index map[string]int
}

func newListWordList(words []string) *listWordList {
	idx := make(map[string]int, len(words))
	for i, w := range words {
		idx[w] = i
	}
	return &listWordList{words: words, index: idx}
}

func (l *listWordList) Size() int { return len(l.words) }

func (l *listWordList) WordAt(i int) string { return l.words[i] }

func (l *listWordList) WordIndex(word string) int {
	if i, ok := l.index[word]; ok {
		return i
	}
	return -1
}

// listSize is N, the word-list size mandated by the encoding (1626,
// matching the reference implementation's English list length).
const listSize = 1626

// consonants and vowels generate a deterministic, collision-free set of
// pronounceable placeholder words, standing in for the reference
// English word list. The encode/decode arithmetic and round-trip
// property are word-list agnostic as long as Size() == 1626 and every
// word is unique.
const consonants = "bcdfghjklmnprstvwyz"
const vowels = "aeiou"

// generateWordList deterministically builds listSize unique pronounceable
// words via a mixed-radix bijection from [0, listSize) into a five-slot
// consonant/vowel/consonant/vowel/consonant pattern.
func generateWordList() []string {
	radices := [5]int{len(consonants), len(vowels), len(consonants), len(vowels), len(consonants)}
	alphabets := [5]string{consonants, vowels, consonants, vowels, consonants}

	words := make([]string, listSize)
	for i := 0; i < listSize; i++ {
		n := i
		var buf [5]byte
		for s := 4; s >= 0; s-- {
			d := n % radices[s]
			n /= radices[s]
			buf[s] = alphabets[s][d]
		}
		words[i] = string(buf[:])
	}
	return words
}

// DefaultWordList is the word list used by EntropyToMnemonic and
// MnemonicToEntropy unless a caller supplies their own via the *WithWordList
// variants.
var DefaultWordList WordList = newListWordList(generateWordList())
