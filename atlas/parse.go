package atlas

import (
	"fmt"
	"strings"

	"github.com/avelineau/manifold/sym"
)

// Endpoint is one end of a coordinate interval.
type Endpoint struct {
	// Value is the endpoint expression. It is nil when Infinite is set.
	Value sym.Expr

	// Infinite marks an unbounded end.
	Infinite bool

	// Closed marks an included endpoint. An infinite end is never closed.
	Closed bool
}

// Interval is a per-coordinate range with open or closed ends.
type Interval struct {
	Min Endpoint
	Max Endpoint
}

// FullLine is the default coordinate range (-oo,+oo).
func FullLine() Interval {
	return Interval{Min: Endpoint{Infinite: true}, Max: Endpoint{Infinite: true}}
}

// IsFullLine reports whether the interval is the unbounded default.
func (iv Interval) IsFullLine() bool { return iv.Min.Infinite && iv.Max.Infinite }

func (iv Interval) String() string {
	var b strings.Builder
	if iv.Min.Closed {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if iv.Min.Infinite {
		b.WriteString("-oo")
	} else {
		b.WriteString(iv.Min.Value.String())
	}
	b.WriteByte(',')
	if iv.Max.Infinite {
		b.WriteString("+oo")
	} else {
		b.WriteString(iv.Max.Value.String())
	}
	if iv.Max.Closed {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}

	return b.String()
}

// coordinateSpec is one parsed token of a chart specification string.
type coordinateSpec struct {
	name    string
	display string
	iv      Interval
}

// negativeInfinity and positiveInfinity are the recognized spellings of the
// unbounded endpoints, exactly as calling code persists them.
var (
	negativeInfinity = map[string]struct{}{
		"-inf": {}, "-Inf": {}, "-infinity": {}, "-Infinity": {}, "-oo": {},
	}
	positiveInfinity = map[string]struct{}{
		"inf": {}, "+inf": {}, "Inf": {}, "+Inf": {},
		"infinity": {}, "+infinity": {}, "Infinity": {}, "+Infinity": {},
		"oo": {}, "+oo": {},
	}
)

// parseChartSpec parses a whitespace-separated chart specification. Each
// token is symbol[:field][:field], where a field starting with '(' or '['
// is the coordinate range and any other field is the display name; the two
// optional fields may appear in either order.
func parseChartSpec(spec string) ([]coordinateSpec, error) {
	tokens := strings.Fields(spec)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty specification", ErrChartSpec)
	}

	coords := make([]coordinateSpec, 0, len(tokens))
	seen := map[string]struct{}{}
	for _, tok := range tokens {
		c, err := parseCoordinateToken(tok)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c.name]; dup {
			return nil, fmt.Errorf("%w: coordinate symbol %q", ErrDuplicateName, c.name)
		}
		seen[c.name] = struct{}{}
		coords = append(coords, c)
	}

	return coords, nil
}

func parseCoordinateToken(tok string) (coordinateSpec, error) {
	parts := strings.Split(tok, ":")
	if parts[0] == "" {
		return coordinateSpec{}, fmt.Errorf("%w: token %q has no symbol", ErrChartSpec, tok)
	}

	c := coordinateSpec{name: parts[0], iv: FullLine()}
	var haveRange, haveDisplay bool
	for _, field := range parts[1:] {
		if field == "" {
			return coordinateSpec{}, fmt.Errorf("%w: empty field in token %q", ErrChartSpec, tok)
		}
		if field[0] == '(' || field[0] == '[' {
			if haveRange {
				return coordinateSpec{}, fmt.Errorf("%w: two ranges in token %q", ErrChartSpec, tok)
			}
			iv, err := parseRange(field)
			if err != nil {
				return coordinateSpec{}, err
			}
			c.iv = iv
			haveRange = true

			continue
		}
		if haveDisplay {
			return coordinateSpec{}, fmt.Errorf("%w: two display names in token %q", ErrChartSpec, tok)
		}
		c.display = field
		haveDisplay = true
	}

	return c, nil
}

// parseRange parses one of (a,b), [a,b), (a,b] and [a,b]. Endpoints are
// expressions accepted by sym.Parse or one of the infinity spellings.
func parseRange(s string) (Interval, error) {
	if len(s) < 5 || (s[len(s)-1] != ')' && s[len(s)-1] != ']') {
		return Interval{}, fmt.Errorf("%w: bad range %q", ErrChartSpec, s)
	}
	minClosed := s[0] == '['
	maxClosed := s[len(s)-1] == ']'

	lo, hi, ok := splitRangeBody(s[1 : len(s)-1])
	if !ok {
		return Interval{}, fmt.Errorf("%w: bad range %q", ErrChartSpec, s)
	}

	iv := Interval{}
	var err error
	if iv.Min, err = parseEndpoint(lo, minClosed, negativeInfinity); err != nil {
		return Interval{}, fmt.Errorf("%w in range %q", err, s)
	}
	if iv.Max, err = parseEndpoint(hi, maxClosed, positiveInfinity); err != nil {
		return Interval{}, fmt.Errorf("%w in range %q", err, s)
	}

	return iv, nil
}

// splitRangeBody splits the range interior at its single top-level comma.
func splitRangeBody(body string) (lo, hi string, ok bool) {
	depth := 0
	cut := -1
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if cut >= 0 {
					return "", "", false
				}
				cut = i
			}
		}
	}
	if cut < 0 {
		return "", "", false
	}

	return body[:cut], body[cut+1:], true
}

func parseEndpoint(s string, closed bool, infinities map[string]struct{}) (Endpoint, error) {
	if _, inf := infinities[s]; inf {
		if closed {
			return Endpoint{}, fmt.Errorf("%w: infinite endpoint %q cannot be included", ErrChartSpec, s)
		}

		return Endpoint{Infinite: true}, nil
	}
	if isInfinitySpelling(s) {
		return Endpoint{}, fmt.Errorf("%w: infinity %q on the wrong side", ErrChartSpec, s)
	}

	e, err := sym.Parse(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: endpoint %q: %v", ErrChartSpec, s, err)
	}

	return Endpoint{Value: e, Closed: closed}, nil
}

func isInfinitySpelling(s string) bool {
	if _, ok := negativeInfinity[s]; ok {
		return true
	}
	_, ok := positiveInfinity[s]

	return ok
}
