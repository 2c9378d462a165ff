package cfg

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lookahead/cfg/strset"
)

// NonterminalName returns a name for the nonterminal with a given ID. Names are
// formed by bijective base-26 numbering: A, B, …, Z, AA, AB, …, AZ, BA, …
// The start symbol (ID 0) is always "A".
func NonterminalName(id int) string {
	if id < 0 {
		return "?"
	}
	var buf [16]byte
	i := len(buf)
	for n := id + 1; n > 0; n /= 26 {
		n--
		i--
		buf[i] = 'A' + byte(n%26)
	}
	return string(buf[i:])
}

// Name returns the debug name of a symbol: nonterminals are named by their ID,
// terminals by their literal.
func (g *Grammar) Name(x *Symbol) string {
	if x.kind == NonterminalKind {
		if id, ok := g.ntIDs[x]; ok {
			return NonterminalName(id)
		}
	}
	return x.String()
}

// Dump writes the rules of g to w, one nonterminal after the other in ID order.
// Alternatives after the first are put below the first one, with "|" bars:
//
//    A -> "a" A "a"
//      | "b"
//
// Runs of single characters are condensed to strings, ε-productions are written
// as "". Every line is indented by indent spaces.
func (g *Grammar) Dump(w io.Writer, indent int) error {
	width := 0
	for id := range g.nts {
		if l := len(NonterminalName(id)); l > width {
			width = l
		}
	}
	column := indent + width
	var b bytes.Buffer
	for id, A := range g.nts {
		name := NonterminalName(id)
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(name)
		b.WriteString(strings.Repeat(" ", width-len(name)))
		b.WriteString(" ->")
		for i, seq := range A.seqs {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", column))
				b.WriteString("  |")
			}
			g.writeSequence(&b, seq)
		}
		if len(A.seqs) == 0 {
			b.WriteByte('\n')
		}
	}
	_, err := w.Write(b.Bytes())
	return err
}

func (g *Grammar) writeSequence(b *bytes.Buffer, seq *Sequence) {
	if len(seq.Items) == 0 {
		b.WriteString(` ""`)
		b.WriteByte('\n')
		return
	}
	items := seq.Items
	for len(items) > 0 {
		b.WriteByte(' ')
		if items[0].kind != CharKind {
			b.WriteString(g.Name(items[0]))
			items = items[1:]
			continue
		}
		b.WriteByte('"') // condense a run of characters
		for len(items) > 0 && items[0].kind == CharKind {
			b.WriteString(escapeChar(items[0].chr))
			items = items[1:]
		}
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// DumpSymbolSet writes a set of symbols as {A,"a",$}. Nonterminals come first,
// ordered by ID, followed by terminals ordered by their literal.
func (g *Grammar) DumpSymbolSet(w io.Writer, syms []*Symbol, indent int) error {
	set := treeset.NewWith(g.symbolComparator)
	for _, x := range syms {
		set.Add(x)
	}
	var b bytes.Buffer
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteByte('{')
	it := set.Iterator()
	for i := 0; it.Next(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(g.Name(it.Value().(*Symbol)))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func (g *Grammar) symbolComparator(a, b interface{}) int {
	x, y := a.(*Symbol), b.(*Symbol)
	idx, xnt := g.ntIDs[x]
	idy, ynt := g.ntIDs[y]
	switch {
	case xnt && ynt:
		return utils.IntComparator(idx, idy)
	case xnt:
		return -1
	case ynt:
		return 1
	}
	if c := utils.StringComparator(x.String(), y.String()); c != 0 {
		return c
	}
	// distinct symbols with equal literals
	return utils.StringComparator(fmt.Sprintf("%p", x), fmt.Sprintf("%p", y))
}

// DumpStringSet writes a string set as {'',a,b$}, where '' denotes ε and a
// trailing $ denotes end-of-input.
func DumpStringSet(w io.Writer, set *strset.Set, indent int) error {
	_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), set.String())
	return err
}

// escapeChar renders a byte within a quoted literal.
func escapeChar(c byte) string {
	switch c {
	case '"':
		return `\"`
	case '\\':
		return `\\`
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	}
	if c >= 0x20 && c < 0x7f {
		return string(rune(c))
	}
	return fmt.Sprintf(`\x%.2X`, c)
}

func escapeCharsetChar(c byte) string {
	switch c {
	case '"':
		return `"`
	case '-':
		return `\-`
	case ']':
		return `\]`
	}
	return escapeChar(c)
}

// charsetString renders a byte class like [0-9_a-z]. Runs of three or more
// consecutive members are written as ranges. A leading ^ is escaped, otherwise
// the class would read as negated.
func charsetString(cs *CharSet) string {
	if cs == nil {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < 256; i++ {
		if !cs.Contains(byte(i)) {
			continue
		}
		if i == '^' && b.Len() == 1 {
			b.WriteString(`\^`)
		} else {
			b.WriteString(escapeCharsetChar(byte(i)))
		}
		if i+2 < 256 && cs.Contains(byte(i+1)) && cs.Contains(byte(i+2)) {
			j := i
			for j+1 < 256 && cs.Contains(byte(j+1)) {
				j++
			}
			b.WriteByte('-')
			b.WriteString(escapeCharsetChar(byte(j)))
			i = j
		}
	}
	b.WriteByte(']')
	return b.String()
}
