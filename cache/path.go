package cache

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/IvanBrykalov/pathcache/internal/ident"
)

// Segment is one normalized step of a cache path. Exactly one of the
// addressing modes is set besides Key:
//
//   - plain:  {Key} addresses the Key property of an object node
//   - index:  {Key, Index} addresses element Index of the array at Key
//   - id:     {Key, ID} addresses the element of the array at Key whose
//     identity attribute (Options.IDAttr) matches ID
//   - append: {Key, Append} means "append to the array at Key" and is only
//     legal as the final segment of a Put path
type Segment struct {
	Key      string
	ID       any
	Index    int
	HasIndex bool
	Append   bool
}

// String renders the segment in the dotted-path token syntax.
func (s Segment) String() string {
	switch {
	case s.Append:
		return s.Key + "[]"
	case s.HasIndex:
		return s.Key + "[" + strconv.Itoa(s.Index) + "]"
	case s.ID != nil:
		return fmt.Sprintf("%s/%v", s.Key, s.ID)
	default:
		return s.Key
	}
}

// matches reports segment-wise equality: same key and same addressing mode,
// with identity values compared through ident.Normalize.
func (s Segment) matches(o Segment) bool {
	if s.Key != o.Key || s.Append != o.Append || s.HasIndex != o.HasIndex {
		return false
	}
	if s.HasIndex && s.Index != o.Index {
		return false
	}
	return ident.Equal(s.ID, o.ID)
}

var (
	keyRE   = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$-]*$`)
	tokenRE = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$-]*)(\[[0-9]*\]|/[A-Za-z0-9]+)?$`)
)

// ParsePath normalizes a caller-supplied path into its segment sequence.
// Accepted forms:
//
//   - a dotted string: "posts/11.comments[0].text"
//   - a slice mixing token strings and single-key maps:
//     []any{"posts/11", "comments[0]", map[string]any{"user": 42}}
//   - a bare single-key map: map[string]any{"user": 42}
//   - a Segment or []Segment (passed through after validation)
//
// Identity suffixes parsed from strings are converted to int64 when they are
// digit-only; map-form identities keep the caller's original type. Both
// compare through the same normalization (see internal/ident).
func ParsePath(path any) ([]Segment, error) {
	switch p := path.(type) {
	case nil:
		return nil, &PathError{Reason: "path is nil"}
	case string:
		return parseString(p)
	case []string:
		elems := make([]any, len(p))
		for i, s := range p {
			elems[i] = s
		}
		return parseList(elems)
	case []any:
		return parseList(p)
	case map[string]any:
		seg, err := mapSegment(p)
		if err != nil {
			return nil, err
		}
		return []Segment{seg}, nil
	case Segment:
		if err := validateSegment(p); err != nil {
			return nil, err
		}
		return []Segment{p}, nil
	case []Segment:
		if len(p) == 0 {
			return nil, &PathError{Reason: "path is empty"}
		}
		out := make([]Segment, len(p))
		copy(out, p)
		for _, s := range out {
			if err := validateSegment(s); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, &PathError{Token: fmt.Sprintf("%T", path), Reason: "unsupported path type"}
	}
}

func parseString(s string) ([]Segment, error) {
	if s == "" {
		return nil, &PathError{Reason: "path is empty"}
	}
	tokens := strings.Split(s, ".")
	segs := make([]Segment, 0, len(tokens))
	for _, tok := range tokens {
		seg, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseList(elems []any) ([]Segment, error) {
	if len(elems) == 0 {
		return nil, &PathError{Reason: "path is empty"}
	}
	var segs []Segment
	for _, e := range elems {
		switch t := e.(type) {
		case string:
			sub, err := parseString(t)
			if err != nil {
				return nil, err
			}
			segs = append(segs, sub...)
		case map[string]any:
			seg, err := mapSegment(t)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case Segment:
			if err := validateSegment(t); err != nil {
				return nil, err
			}
			segs = append(segs, t)
		default:
			return nil, &PathError{Token: fmt.Sprintf("%v", e), Reason: "unsupported path element type"}
		}
	}
	return segs, nil
}

// parseToken matches one dotted-path token against the segment grammar:
// an identifier optionally followed by exactly one of "[<digits>]" (index),
// "[]" (append) or "/<alnum>" (identity).
func parseToken(tok string) (Segment, error) {
	if tok == "" {
		return Segment{}, &PathError{Token: tok, Reason: "empty path segment"}
	}
	if strings.Contains(tok, "[") && strings.Contains(tok, "/") {
		return Segment{}, &PathError{Token: tok, Reason: "segment specifies both index and identity"}
	}
	m := tokenRE.FindStringSubmatch(tok)
	if m == nil {
		return Segment{}, &PathError{Token: tok, Reason: "segment does not match the path grammar"}
	}
	seg := Segment{Key: m[1]}
	suffix := m[2]
	switch {
	case suffix == "":
	case suffix == "[]":
		seg.Append = true
	case suffix[0] == '[':
		idx, err := strconv.Atoi(suffix[1 : len(suffix)-1])
		if err != nil {
			return Segment{}, &PathError{Token: tok, Reason: "invalid array index"}
		}
		seg.Index = idx
		seg.HasIndex = true
	default: // "/<id>"
		id := suffix[1:]
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && isAllDigits(id) {
			seg.ID = n
		} else {
			seg.ID = id
		}
	}
	return seg, nil
}

// mapSegment normalizes a single-key map element, e.g. {"user": 42}, into an
// identity segment. The identity keeps the caller's original type.
func mapSegment(m map[string]any) (Segment, error) {
	if len(m) != 1 {
		return Segment{}, &PathError{Token: fmt.Sprintf("%v", m), Reason: "object path element must have exactly one key"}
	}
	for k, v := range m {
		if !keyRE.MatchString(k) {
			return Segment{}, &PathError{Token: k, Reason: "invalid segment key"}
		}
		if v == nil {
			return Segment{}, &PathError{Token: k, Reason: "identity value is nil"}
		}
		return Segment{Key: k, ID: v}, nil
	}
	return Segment{}, &PathError{Reason: "empty object path element"}
}

func validateSegment(s Segment) error {
	if !keyRE.MatchString(s.Key) {
		return &PathError{Token: s.Key, Reason: "invalid segment key"}
	}
	set := 0
	if s.ID != nil {
		set++
	}
	if s.HasIndex {
		set++
	}
	if s.Append {
		set++
	}
	if set > 1 {
		return &PathError{Token: s.String(), Reason: "segment sets more than one addressing mode"}
	}
	return nil
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// PathToREST converts a path into a slash-delimited REST-style URL fragment:
// "posts/11.comments" becomes "posts/11/comments". Index and append segments
// have no REST equivalent and produce an error.
func PathToREST(path any) (string, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, s := range segs {
		if s.HasIndex || s.Append {
			return "", &PathError{Token: s.String(), Reason: "segment has no REST representation"}
		}
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(s.Key)
		if s.ID != nil {
			b.WriteByte('/')
			fmt.Fprintf(&b, "%v", s.ID)
		}
	}
	return b.String(), nil
}

// pathString renders segments back into the dotted syntax, for logs and errors.
func pathString(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}
