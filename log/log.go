package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// A Simple log library implementation. There is a globalLogger, a map from logName -> SimpleLog. Each SimpleLog
// either prints to a console writer or buffers lines and hands them to a background flusher that appends
// to savePath. A SimpleLogWrapper adds a header, so a line looks like
// `2006/01/02 15:04:05.000000 [parser] [DEBUG]: some things happened.`
// Usage:
// ```golang
//	InitConsoleLogger("parser", os.Stderr)
//	parserLog := GetLog("parser").AddHeader("insert")
//	parserLog.DebugF("tokens: %s", lexer)
// ```
// GetLog never returns nil: a name that was never initialized yields a logger that drops everything,
// so library code can log without caring whether the application configured logging.

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
	FATAL
)

var logLevelMaps = map[int]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var (
	globalLogLock      sync.RWMutex
	globalLogger       = map[string]*SimpleLog{}
	discardLog         = &SimpleLog{level: FATAL + 1}
	ErrReInitializeLog = errors.New("log have been initialized")
	logBufChCapacity   = 1 << 10
)

type SimpleLog struct {
	SavePath   string
	BufferSize int
	Buf        *bytes.Buffer
	BufLock    sync.Mutex
	level      int
	logFlusher *logFlusher
	logCh      chan *bytes.Buffer
	console    io.Writer
	closed     bool
}

type SimpleLogWrapper struct {
	log    *SimpleLog
	header string
}

func GetLog(logName string) *SimpleLog {
	globalLogLock.RLock()
	defer globalLogLock.RUnlock()
	log, ok := globalLogger[logName]
	if !ok {
		return discardLog
	}
	return log
}

func CloseLog(logName string) {
	globalLogLock.Lock()
	log, ok := globalLogger[logName]
	delete(globalLogger, logName)
	globalLogLock.Unlock()
	if !ok {
		return
	}
	log.closeLogger()
}

// Add a file logger that buffers up to bufSize bytes before handing them to the flusher goroutine.
func InitFileLogger(logName, savePath string, bufSize int) error {
	globalLogLock.Lock()
	defer globalLogLock.Unlock()
	_, ok := globalLogger[logName]
	if ok {
		return ErrReInitializeLog
	}
	logCh := make(chan *bytes.Buffer, logBufChCapacity)
	flusher, err := newLogFlusher(savePath, logCh)
	if err != nil {
		return err
	}
	newLogger := &SimpleLog{
		SavePath:   savePath,
		BufferSize: bufSize,
		Buf:        new(bytes.Buffer),
		level:      INFO,
		logFlusher: flusher,
		logCh:      logCh,
	}
	globalLogger[logName] = newLogger
	go flusher.flushLog()
	return nil
}

// Add a console logger that writes every line to w, os.Stderr when w is nil.
func InitConsoleLogger(logName string, w io.Writer) error {
	globalLogLock.Lock()
	defer globalLogLock.Unlock()
	_, ok := globalLogger[logName]
	if ok {
		return ErrReInitializeLog
	}
	if w == nil {
		w = os.Stderr
	}
	globalLogger[logName] = &SimpleLog{console: w, level: INFO}
	return nil
}

func (log *SimpleLog) SetLevel(level int) {
	log.BufLock.Lock()
	defer log.BufLock.Unlock()
	log.level = level
}

func (log *SimpleLog) Enabled(level int) bool {
	log.BufLock.Lock()
	defer log.BufLock.Unlock()
	return level >= log.level
}

func (log SimpleLogWrapper) DebugF(format string, params ...interface{}) {
	log.log.printLog(log.header, DEBUG, format, params...)
}

func (log SimpleLogWrapper) InfoF(format string, params ...interface{}) {
	log.log.printLog(log.header, INFO, format, params...)
}

func (log SimpleLogWrapper) WarnF(format string, params ...interface{}) {
	log.log.printLog(log.header, WARN, format, params...)
}

func (log SimpleLogWrapper) ErrorF(format string, params ...interface{}) {
	log.log.printLog(log.header, ERROR, format, params...)
}

func (log SimpleLogWrapper) FatalF(format string, params ...interface{}) {
	log.log.printLog(log.header, FATAL, format, params...)
}

func (log SimpleLogWrapper) GetUnderlineLog() *SimpleLog {
	return log.log
}

func (log *SimpleLog) AddHeader(header string) SimpleLogWrapper {
	return SimpleLogWrapper{header: header, log: log}
}

func (log *SimpleLog) closeLogger() {
	log.BufLock.Lock()
	defer log.BufLock.Unlock()
	if log.closed {
		return
	}
	log.closed = true
	if log.logCh != nil {
		log.doFlushIfNeed(true)
		close(log.logCh)
		<-log.logFlusher.done
	}
}

// PrintLog print a log with format like:
// 2006/01/02 15:04:05.000000 [header] [INFO]: some thing happened.
func (log *SimpleLog) printLog(header string, level int, format string, a ...interface{}) {
	log.BufLock.Lock()
	defer log.BufLock.Unlock()
	if level < log.level || log.closed {
		return
	}
	l := fmt.Sprintf("%s [%s] [%s]: ", time.Now().Format("2006/01/02 15:04:05.000000"), header, logLevelMaps[level])
	l = fmt.Sprintf(l+format, a...)
	if log.console != nil {
		fmt.Fprintln(log.console, l)
		return
	}
	log.Buf.WriteString(l)
	log.Buf.WriteByte('\n')
	log.doFlushIfNeed(false)
}

func (log *SimpleLog) doFlushIfNeed(force bool) {
	if log.Buf.Len() == 0 {
		return
	}
	if force || log.Buf.Len() >= log.BufferSize {
		buf := log.Buf
		log.Buf = new(bytes.Buffer)
		log.logCh <- buf
	}
}

type logFlusher struct {
	fileName string
	f        *os.File
	logCh    <-chan *bytes.Buffer
	done     chan struct{}
}

func newLogFlusher(fileName string, logCh <-chan *bytes.Buffer) (*logFlusher, error) {
	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	return &logFlusher{
		fileName: fileName,
		f:        f,
		logCh:    logCh,
		done:     make(chan struct{}),
	}, nil
}

func (flusher *logFlusher) close() error {
	return flusher.f.Close()
}

func (flusher *logFlusher) flushLog() {
	defer close(flusher.done)
	for buf := range flusher.logCh {
		// NOTE: We ignore the returned value of writeTo.
		buf.WriteTo(flusher.f)
	}
	flusher.close()
}
