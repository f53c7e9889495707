package parser

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/xiaobogaga/shardsql/ast"
	"github.com/xiaobogaga/shardsql/lexer"
	"github.com/xiaobogaga/shardsql/log"
	"golang.org/x/sync/singleflight"
)

const LogName = "parser"

// Engine parses sql text into insert statements for one dialect and one sharding rule. It is safe
// for concurrent use.
type Engine struct {
	insertParser *InsertParser
	cache        *statementCache
	group        singleflight.Group
}

type Option func(engine *Engine)

// WithCache keeps up to size parsed statements. size <= 0 disables the cache.
func WithCache(size int) Option {
	return func(engine *Engine) {
		if size <= 0 {
			engine.cache = nil
			return
		}
		engine.cache = newStatementCache(size)
	}
}

func NewEngine(dialect Dialect, rule ShardingRule, options ...Option) *Engine {
	engine := &Engine{insertParser: NewInsertParser(rule, dialect)}
	for _, option := range options {
		option(engine)
	}
	return engine
}

func (engine *Engine) Dialect() Dialect {
	return engine.insertParser.Dialect()
}

// Parse parses one insert statement. Every call returns a statement of its own, also when it is
// served from the cache.
func (engine *Engine) Parse(sql string) (*ast.InsertStatement, error) {
	if engine.cache == nil {
		return engine.parse(sql)
	}
	if stm, ok := engine.cache.get(sql); ok {
		return stm.Clone(), nil
	}
	v, err, _ := engine.group.Do(sql, func() (interface{}, error) {
		if stm, ok := engine.cache.get(sql); ok {
			return stm, nil
		}
		stm, err := engine.parse(sql)
		if err != nil {
			return nil, err
		}
		engine.cache.put(sql, stm)
		return stm, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ast.InsertStatement).Clone(), nil
}

func (engine *Engine) parse(sql string) (*ast.InsertStatement, error) {
	parserLog := log.GetLog(LogName).AddHeader(engine.Dialect().Name)
	parser, err := engine.Dialect().NewParser(sql)
	if err != nil {
		parserLog.DebugF("lex %q failed: %v", sql, err)
		return nil, err
	}
	if parserLog.GetUnderlineLog().Enabled(log.DEBUG) {
		parserLog.DebugF("tokens: %s", parser.Lexer())
	}
	if !parser.EqualAny(lexer.INSERT) {
		token := parser.CurrentToken()
		return nil, NewErrUnsupportedFeature(token.StartPos, "statement "+token.Tp.String())
	}
	stm, err := engine.insertParser.Parse(parser)
	if err != nil {
		parserLog.DebugF("parse %q failed: %v", sql, err)
		return nil, err
	}
	parserLog.DebugF("parsed %q: table %s, %d columns, %d sql tokens", sql, stm.TableName(), len(stm.Columns), len(stm.SQLTokens))
	return stm, nil
}

type cacheEntry struct {
	sql string
	stm *ast.InsertStatement
}

// statementCache is keyed by the xxhash of the sql. The sql is kept to tell colliding statements
// apart, a collision is a miss. It is cleared when full.
type statementCache struct {
	lock    sync.RWMutex
	size    int
	entries map[uint64]cacheEntry
}

func newStatementCache(size int) *statementCache {
	return &statementCache{size: size, entries: make(map[uint64]cacheEntry, size)}
}

func (cache *statementCache) get(sql string) (*ast.InsertStatement, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	entry, ok := cache.entries[xxhash.Sum64String(sql)]
	if !ok || entry.sql != sql {
		return nil, false
	}
	return entry.stm, true
}

func (cache *statementCache) put(sql string, stm *ast.InsertStatement) {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	key := xxhash.Sum64String(sql)
	if _, ok := cache.entries[key]; !ok && len(cache.entries) >= cache.size {
		cache.entries = make(map[uint64]cacheEntry, cache.size)
	}
	cache.entries[key] = cacheEntry{sql: sql, stm: stm}
}

func (cache *statementCache) len() int {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	return len(cache.entries)
}
