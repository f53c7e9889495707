package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/xiaobogaga/shardsql/log"
	"github.com/xiaobogaga/shardsql/parser"
	"github.com/xiaobogaga/shardsql/rule"
	"golang.org/x/term"
)

var (
	dialectName = flag.String("dialect", "mysql", "the sql dialect: "+strings.Join(parser.DialectNames(), ", "))
	rulePath    = flag.String("rules", "", "the sharding rule yaml file")
	execute     = flag.String("e", "", "parse the statement and exit")
	logPath     = flag.String("log", "", "the log file, stderr when empty")
	debug       = flag.Bool("debug", false, "log tokens and parse results")
	cacheSize   = flag.Int("cache", 0, "the number of parsed statements to cache, 0 disables the cache")
)

var prompt = "shardsql> "

const helpMessage = `Type an insert statement to see how it is parsed.
  \h  show this help
  \q  quit`

func main() {
	flag.Parse()
	err := initLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "err: %v\n", err)
		os.Exit(1)
	}
	defer log.CloseLog(parser.LogName)
	engine, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "err: %v\n", err)
		os.Exit(1)
	}
	if *execute != "" {
		if !parseAndDescribe(os.Stdout, engine, *execute) {
			os.Exit(1)
		}
		return
	}
	if !isTerminal() {
		runSimpleREPL(os.Stdin, os.Stdout, engine)
		return
	}
	runREPL(engine)
}

func initLog() error {
	var err error
	if *logPath == "" {
		err = log.InitConsoleLogger(parser.LogName, os.Stderr)
	} else {
		err = log.InitFileLogger(parser.LogName, *logPath, 1024*4)
	}
	if err != nil {
		return err
	}
	if *debug {
		log.GetLog(parser.LogName).SetLevel(log.DEBUG)
	}
	return nil
}

func newEngine() (*parser.Engine, error) {
	dialect, ok := parser.LookupDialect(*dialectName)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %s, expect one of %s", *dialectName, strings.Join(parser.DialectNames(), ", "))
	}
	var shardingRule parser.ShardingRule
	if *rulePath != "" {
		r, err := rule.Load(*rulePath)
		if err != nil {
			return nil, err
		}
		shardingRule = r
	}
	return parser.NewEngine(dialect, shardingRule, parser.WithCache(*cacheSize)), nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shardsql_history")
}

func runREPL(engine *parser.Engine) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFilePath(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "line editing unavailable: %v\n", err)
		runSimpleREPL(os.Stdin, os.Stdout, engine)
		return
	}
	defer rl.Close()
	fmt.Println(helpMessage)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return
		}
		if !handleLine(os.Stdout, engine, line) {
			return
		}
	}
}

// runSimpleREPL reads one statement per line, used when stdin is not a terminal.
func runSimpleREPL(r io.Reader, w io.Writer, engine *parser.Engine) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !handleLine(w, engine, scanner.Text()) {
			return
		}
	}
}

// handleLine returns false when the shell should quit.
func handleLine(w io.Writer, engine *parser.Engine, line string) bool {
	input := strings.TrimSpace(line)
	switch input {
	case "":
		return true
	case `\q`, "quit", "exit":
		return false
	case `\h`, "help":
		fmt.Fprintln(w, helpMessage)
		return true
	}
	parseAndDescribe(w, engine, input)
	return true
}

func parseAndDescribe(w io.Writer, engine *parser.Engine, sql string) bool {
	stm, err := engine.Parse(sql)
	if err != nil {
		fmt.Fprintf(w, "err: %v\n", err)
		return false
	}
	describe(w, sql, stm)
	return true
}
