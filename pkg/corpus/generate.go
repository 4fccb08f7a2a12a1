// Package corpus generates lorem-ipsum text files used as counting input.
package corpus

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtnitsch/fasty/pkg/storage"
)

// opening is always emitted first, the way lorem-ipsum generators do.
var opening = []string{"lorem", "ipsum", "dolor", "sit", "amet"}

var vocabulary = []string{
	"a", "ac", "accumsan", "adipiscing", "aenean", "aliquam", "aliquet", "amet",
	"ante", "arcu", "at", "auctor", "augue", "bibendum", "blandit", "commodo",
	"condimentum", "congue", "consectetur", "consequat", "convallis", "cras",
	"curabitur", "cursus", "dapibus", "diam", "dictum", "dignissim", "dolor",
	"donec", "dui", "duis", "egestas", "eget", "eleifend", "elementum", "elit",
	"enim", "erat", "eros", "est", "et", "etiam", "eu", "euismod", "facilisis",
	"fames", "faucibus", "felis", "fermentum", "feugiat", "fringilla", "fusce",
	"gravida", "habitant", "hendrerit", "iaculis", "id", "imperdiet", "in",
	"integer", "interdum", "ipsum", "justo", "lacinia", "lacus", "laoreet",
	"lectus", "leo", "libero", "ligula", "lobortis", "lorem", "luctus",
	"maecenas", "magna", "malesuada", "massa", "mattis", "mauris", "metus", "mi",
	"molestie", "mollis", "morbi", "nam", "nec", "neque", "netus", "nibh",
	"nisi", "nisl", "non", "nulla", "nullam", "nunc", "odio", "orci", "ornare",
	"pellentesque", "pharetra", "phasellus", "placerat", "porta", "porttitor",
	"posuere", "praesent", "pretium", "proin", "pulvinar", "purus", "quam",
	"quis", "quisque", "rhoncus", "risus", "rutrum", "sagittis", "sapien",
	"scelerisque", "sed", "sem", "semper", "senectus", "sit", "sodales",
	"sollicitudin", "suscipit", "suspendisse", "tellus", "tempor", "tempus",
	"tincidunt", "tortor", "tristique", "turpis", "ullamcorper", "ultrices",
	"ultricies", "urna", "ut", "varius", "vel", "velit", "venenatis", "vestibulum",
	"vitae", "vivamus", "viverra", "volutpat", "vulputate",
}

// Generator produces pseudo-random text. A Generator is not safe for
// concurrent use.
type Generator struct {
	rng     *rand.Rand
	storage *storage.Storage
}

// NewGenerator returns a Generator whose output is fully determined by seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		storage: &storage.Storage{},
	}
}

// Words returns n words grouped into capitalised, period-terminated sentences.
func (g *Generator) Words(n int) string {
	if n <= 0 {
		return ""
	}

	var sb strings.Builder
	sentenceLen := 0
	// The opening words form one unbroken run at the start of the first sentence.
	sentenceTarget := max(g.sentenceLength(), len(opening))
	for i := 0; i < n; i++ {
		var word string
		if i < len(opening) {
			word = opening[i]
		} else {
			word = vocabulary[g.rng.IntN(len(vocabulary))]
		}

		if sentenceLen == 0 {
			word = capitalize(word)
			if i > 0 {
				sb.WriteByte(' ')
			}
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
		sentenceLen++

		if sentenceLen == sentenceTarget || i == n-1 {
			sb.WriteByte('.')
			sentenceLen = 0
			sentenceTarget = g.sentenceLength()
		} else if i >= len(opening)-1 && g.rng.IntN(10) == 0 {
			sb.WriteByte(',')
		}
	}

	return sb.String()
}

// WriteFiles writes files text files named 0.txt, 1.txt, ... into dir, each
// holding words generated words, and returns their paths in order.
func (g *Generator) WriteFiles(dir string, files, words int) ([]string, error) {
	if files < 0 {
		return nil, fmt.Errorf("file count must not be negative, got %d", files)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create corpus directory: %w", err)
	}

	paths := make([]string, 0, files)
	for i := 0; i < files; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.txt", i))
		if err := g.storage.SaveFile(path, []byte(g.Words(words))); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (g *Generator) sentenceLength() int {
	return 4 + g.rng.IntN(12)
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + word[size:]
}
