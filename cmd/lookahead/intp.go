package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/lookahead/cfg"
	"github.com/npillmayer/lookahead/cfg/strset"
	"github.com/npillmayer/lookahead/notation"
	"github.com/npillmayer/lookahead/scanner"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object.
type Intp struct {
	conf    Config
	out     io.Writer            // for grammar dumps
	cache   map[string]*analysis // fingerprint → analysis
	current *analysis            // most recently loaded grammar
	onError func(error)          // reports errors of commands
}

// analysis is a grammar read from a file, together with its CFG. The CFG holds
// the memoized lookahead sets.
type analysis struct {
	path string
	G    *notation.Grammar
	g    *cfg.Grammar
}

// NewIntp creates an interpreter for a session configuration.
func NewIntp(conf Config) *Intp {
	return &Intp{
		conf:  conf,
		out:   os.Stdout,
		cache: make(map[string]*analysis),
		onError: func(err error) {
			pterm.Error.Println(err.Error())
		},
	}
}

var errNoGrammar = errors.New("no grammar loaded, use 'load FILE'")

type command struct {
	args  string // argument synopsis
	help  string
	nargs int
	run   func(intp *Intp, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"load":   {"FILE", "load a grammar (.bnf or .ebnf)", 1, func(intp *Intp, args []string) error { return intp.Load(args[0]) }},
		"rules":  {"", "print the rules of the grammar", 0, (*Intp).rules},
		"dump":   {"", "print the desugared grammar", 0, (*Intp).dump},
		"eps":    {"", "list rules deriving the empty string", 0, (*Intp).eps},
		"first":  {"K RULE", "print FIRSTₖ of a rule", 2, (*Intp).first},
		"follow": {"K RULE", "print FOLLOWₖ of a rule", 2, (*Intp).follow},
		"table":  {"K", "print FIRSTₖ and FOLLOWₖ of all rules", 1, (*Intp).table},
		"tree":   {"K RULE", "print FIRSTₖ of a rule as a tree", 2, (*Intp).tree},
		"help":   {"", "list commands", 0, (*Intp).help},
	}
}

// Eval executes a command, given on a line by itself. It returns true if the
// user asked to quit.
func (intp *Intp) Eval(line string) (bool, error) {
	cmd, args := splitCommand(line)
	if cmd == "quit" || cmd == "exit" {
		return true, nil
	}
	c, ok := commands[cmd]
	if !ok {
		return false, intp.report(fmt.Errorf("unknown command %q, try 'help'", cmd))
	}
	if len(args) != c.nargs {
		return false, intp.report(fmt.Errorf("usage: %s %s", cmd, c.args))
	}
	tracer().Debugf("command %s %v", cmd, args)
	return false, intp.report(c.run(intp, args))
}

func (intp *Intp) report(err error) error {
	if err != nil {
		intp.onError(err)
	}
	return err
}

// splitCommand tokenizes a command line. Arguments of 'load' are taken verbatim,
// as file paths do not form Go tokens.
func splitCommand(line string) (string, []string) {
	line = strings.TrimSpace(line)
	if f := strings.Fields(line); len(f) > 0 && f[0] == "load" {
		path := strings.TrimSpace(strings.TrimPrefix(line, "load"))
		if unq, err := strconv.Unquote(path); err == nil {
			path = unq
		}
		if path == "" {
			return "load", nil
		}
		return "load", []string{path}
	}
	sc := scanner.GoTokenizer("command", strings.NewReader(line), scanner.UnifyStrings(true))
	var words []string
	for tok := sc.NextToken(); tok.TokType() != scanner.EOF; tok = sc.NextToken() {
		word := tok.Lexeme()
		if tok.TokType() == scanner.String {
			if unq, err := strconv.Unquote(word); err == nil {
				word = unq
			}
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return "", nil
	}
	return words[0], words[1:]
}

// Load reads a grammar file and analyzes it. If the file contains a grammar
// identical to one loaded before, the former analysis is re-used.
func (intp *Intp) Load(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var G *notation.Grammar
	switch filepath.Ext(path) {
	case ".ebnf":
		start := intp.conf.Start
		if start == "" {
			return fmt.Errorf("EBNF grammars need a start rule, set 'start' in the configuration")
		}
		G, err = notation.ParseEBNF(path, bytes.NewReader(src), start)
	default:
		G, err = notation.ParseBNF(string(src))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fp, err := G.Fingerprint()
	if err != nil {
		return err
	}
	if a, ok := intp.cache[fp]; ok {
		tracer().Infof("grammar in %s unchanged, re-using analysis", path)
		a.path = path
		intp.current = a
		return nil
	}
	g, err := G.Analyze(cfg.WithMaxLookahead(intp.conf.MaxK))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	a := &analysis{path: path, G: G, g: g}
	intp.cache[fp] = a
	intp.current = a
	pterm.Info.Printf("loaded %s: %d rules, %d nonterminals\n", path, len(G.Order), g.NonterminalCount())
	return nil
}

func (intp *Intp) grammar() (*analysis, error) {
	if intp.current == nil {
		return nil, errNoGrammar
	}
	return intp.current, nil
}

// lookup finds the symbol of a rule. Rules not reachable from the start rule
// have no symbol.
func (a *analysis) lookup(name string) (*cfg.Symbol, error) {
	if _, ok := a.G.Rules[name]; !ok {
		return nil, fmt.Errorf("no rule %q in %s", name, a.path)
	}
	sym := a.G.Symbol(name)
	if sym == nil {
		return nil, fmt.Errorf("rule %q is not reachable from start rule %s", name, a.G.Start)
	}
	return sym, nil
}

func parseK(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("lookahead depth must be a number: %q", s)
	}
	return k, nil
}

func (intp *Intp) rules(args []string) error {
	a, err := intp.grammar()
	if err != nil {
		return err
	}
	_, err = io.WriteString(intp.out, a.G.String())
	return err
}

func (intp *Intp) dump(args []string) error {
	a, err := intp.grammar()
	if err != nil {
		return err
	}
	return a.g.Dump(intp.out, 2)
}

func (intp *Intp) eps(args []string) error {
	a, err := intp.grammar()
	if err != nil {
		return err
	}
	var names []string
	for _, name := range a.G.Order {
		if sym := a.G.Symbol(name); sym != nil && a.g.DerivesEpsilon(sym) {
			names = append(names, name)
		}
	}
	pterm.Info.Printf("ε-rules: {%s}\n", strings.Join(names, ","))
	return nil
}

// lookahead computes FIRSTₖ or FOLLOWₖ for args = [K RULE].
func (intp *Intp) lookahead(args []string, follow bool) (*strset.Set, error) {
	a, err := intp.grammar()
	if err != nil {
		return nil, err
	}
	k, err := parseK(args[0])
	if err != nil {
		return nil, err
	}
	sym, err := a.lookup(args[1])
	if err != nil {
		return nil, err
	}
	if follow {
		return a.g.Follow(k, sym)
	}
	return a.g.First(k, sym)
}

func (intp *Intp) first(args []string) error {
	set, err := intp.lookahead(args, false)
	if err != nil {
		return err
	}
	pterm.Info.Printf("FIRST%s(%s) = %s\n", args[0], args[1], set)
	return nil
}

func (intp *Intp) follow(args []string) error {
	set, err := intp.lookahead(args, true)
	if err != nil {
		return err
	}
	pterm.Info.Printf("FOLLOW%s(%s) = %s\n", args[0], args[1], set)
	return nil
}

// tableData collects ε-derivability, FIRSTₖ and FOLLOWₖ of every rule.
func (intp *Intp) tableData(k int) (pterm.TableData, error) {
	a, err := intp.grammar()
	if err != nil {
		return nil, err
	}
	kk := strconv.Itoa(k)
	data := pterm.TableData{{"Rule", "ε", "FIRST" + kk, "FOLLOW" + kk}}
	for _, name := range a.G.Order {
		sym := a.G.Symbol(name)
		if sym == nil {
			data = append(data, []string{name, "", "unreachable", ""})
			continue
		}
		first, err := a.g.First(k, sym)
		if err != nil {
			return nil, err
		}
		follow, err := a.g.Follow(k, sym)
		if err != nil {
			return nil, err
		}
		eps := ""
		if a.g.DerivesEpsilon(sym) {
			eps = "✓"
		}
		data = append(data, []string{name, eps, first.String(), follow.String()})
	}
	return data, nil
}

func (intp *Intp) table(args []string) error {
	k, err := parseK(args[0])
	if err != nil {
		return err
	}
	data, err := intp.tableData(k)
	if err != nil {
		return err
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

func (intp *Intp) tree(args []string) error {
	set, err := intp.lookahead(args, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(intp.out, "FIRST%s(%s)\n", args[0], args[1])
	root := pterm.NewTreeFromLeveledList(leveledSet(set, pterm.LeveledList{}, 0))
	pterm.DefaultTree.WithRoot(root).Render()
	return nil
}

// leveledSet flattens the trie of a string set into a leveled list, one level
// per character. ε is listed only where a string ends at an inner node.
func leveledSet(set *strset.Set, ll pterm.LeveledList, level int) pterm.LeveledList {
	chars, nodes := set.Branches()
	inner := set.HasEnd()
	for _, n := range nodes {
		inner = inner || !n.IsEmpty()
	}
	if set.HasEpsilon() && (inner || level == 0) {
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: "ε"})
	}
	if set.HasEnd() {
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: "$"})
	}
	for i, c := range chars {
		if nodes[i].IsEmpty() {
			continue
		}
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: strset.EscapeChar(c)})
		ll = leveledSet(nodes[i], ll, level+1)
	}
	return ll
}

func (intp *Intp) help(args []string) error {
	data := pterm.TableData{{"Command", "Arguments", "Description"}}
	for _, name := range []string{"load", "rules", "dump", "eps", "first", "follow", "table", "tree", "help"} {
		c := commands[name]
		data = append(data, []string{name, c.args, c.help})
	}
	data = append(data, []string{"quit", "", "leave"})
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}
