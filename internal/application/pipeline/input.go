package pipeline

import (
	"fmt"
	"strings"

	"github.com/molsift/molsift/pkg/types/compound"
)

// ParseLine turns one input line into a CompoundInput.  The format is
// whitespace-separated "notation [name...]"; everything after the first token
// is the display name.  Returns false for blank lines and '#' comments, which
// are skipped silently and do not consume a record index.  A record with no
// name gets a generated one, "<prefix>_<index>".
func ParseLine(line string, index int, prefix string) (compound.CompoundInput, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return compound.CompoundInput{}, false
	}

	fields := strings.Fields(trimmed)
	in := compound.CompoundInput{Notation: fields[0]}
	if len(fields) > 1 {
		in.Name = strings.Join(fields[1:], " ")
	} else {
		in.Name = fmt.Sprintf("%s_%d", prefix, index)
	}
	return in, true
}
