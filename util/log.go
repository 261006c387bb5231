package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// A Simple log library implementation. There is a globalLogger, a map from logName -> SimpleLogWrapper, and one
// SimpleLog that buffers lines and flushes them to savePath in the background. Every line carries the name of the
// wrapper it was printed with, like `2006/01/02 15:04:05.000000 [scan] [INFO]: read 6 rows`.
// Usage:
// ```golang
//	InitLogger("./miniquery.log", 4096, time.Second, false)
//	defer CloseLog()
//	GetLog("planner").InfoF("planned %s", plan)
// ```
// Before InitLogger is called, lines go to stderr when SetVerbose(true) and are dropped otherwise.

const (
	INFO = iota
	DEBUG
	WARN
	ERROR
	FATAL
)

var (
	logLevelMaps = map[int]string{
		INFO:  "INFO",
		DEBUG: "DEBUG",
		WARN:  "WARN",
		ERROR: "ERROR",
		FATAL: "FATAL",
	}
	fileLog            *SimpleLog
	globalLogLock      sync.RWMutex
	globalLogger       = map[string]SimpleLogWrapper{}
	verbose            bool
	console            io.Writer = os.Stderr
	ErrReInitializeLog           = errors.New("log have been initialized.")
	ErrClosedLog                 = errors.New("log have been closed")
	logBufChCapacity             = 1 << 16
)

type SimpleLog struct {
	SavePath      string
	BufferSize    int
	flushTime     time.Duration
	lastFlushTime time.Time
	Buf           *bytes.Buffer
	lock          sync.Mutex
	logFlusher    *logFlusher
	logCh         chan *bytes.Buffer
	done          chan struct{}
	closed        bool
}

type SimpleLogWrapper struct {
	header string
}

func GetLog(logName string) SimpleLogWrapper {
	globalLogLock.Lock()
	defer globalLogLock.Unlock()
	_, ok := globalLogger[logName]
	if !ok {
		globalLogger[logName] = SimpleLogWrapper{logName}
	}
	return globalLogger[logName]
}

// SetVerbose echoes every line to the console, whether or not a log file is set up.
func SetVerbose(v bool) {
	globalLogLock.Lock()
	defer globalLogLock.Unlock()
	verbose = v
}

// SetConsole redirects console output.
func SetConsole(w io.Writer) {
	globalLogLock.Lock()
	defer globalLogLock.Unlock()
	console = w
}

// CloseLog flushes what is buffered and waits for the file to be written.
func CloseLog() error {
	globalLogLock.Lock()
	l := fileLog
	fileLog = nil
	globalLogLock.Unlock()
	if l == nil {
		return ErrClosedLog
	}
	return l.closeLogger()
}

func InitLogger(savePath string, bufSize int, flushTime time.Duration, echo bool) error {
	globalLogLock.Lock()
	defer globalLogLock.Unlock()
	if echo {
		verbose = true
	}
	if fileLog != nil {
		return ErrReInitializeLog
	}
	if savePath == "" {
		return nil
	}
	logCh := make(chan *bytes.Buffer, logBufChCapacity)
	flusher, err := newLogFlusher(savePath, logCh)
	if err != nil {
		return errors.Wrapf(err, "open log %s", savePath)
	}
	fileLog = &SimpleLog{
		SavePath:      savePath,
		BufferSize:    bufSize,
		flushTime:     flushTime,
		lastFlushTime: time.Now(),
		Buf:           new(bytes.Buffer),
		logFlusher:    flusher,
		logCh:         logCh,
		done:          make(chan struct{}),
	}
	go flusher.flushLog(fileLog.done)
	return nil
}

func (log SimpleLogWrapper) InfoF(format string, params ...interface{}) {
	printLog(log.header, INFO, format, params...)
}

func (log SimpleLogWrapper) DebugF(format string, params ...interface{}) {
	printLog(log.header, DEBUG, format, params...)
}

func (log SimpleLogWrapper) WarnF(format string, params ...interface{}) {
	printLog(log.header, WARN, format, params...)
}

func (log SimpleLogWrapper) ErrorF(format string, params ...interface{}) {
	printLog(log.header, ERROR, format, params...)
}

func (log SimpleLogWrapper) FatalF(format string, params ...interface{}) {
	printLog(log.header, FATAL, format, params...)
}

func printLog(header string, level int, format string, a ...interface{}) {
	globalLogLock.RLock()
	l, echo, w := fileLog, verbose, console
	globalLogLock.RUnlock()
	if l == nil && !echo {
		return
	}
	line := fmt.Sprintf("%s [%s] [%s]: ", time.Now().Format("2006/01/02 15:04:05.000000"), header, logLevelMaps[level])
	line = fmt.Sprintf(line+format, a...)
	if echo {
		fmt.Fprintln(w, line)
	}
	if l != nil {
		l.write(line)
	}
}

func (log *SimpleLog) closeLogger() error {
	log.lock.Lock()
	if log.closed {
		log.lock.Unlock()
		return ErrClosedLog
	}
	log.doFlushIfNeed(true)
	close(log.logCh)
	log.closed = true
	log.lock.Unlock()
	<-log.done
	return nil
}

func (log *SimpleLog) write(line string) {
	log.lock.Lock()
	defer log.lock.Unlock()
	if log.closed {
		return
	}
	log.Buf.WriteString(line)
	log.Buf.WriteByte('\n')
	log.doFlushIfNeed(false)
}

func (log *SimpleLog) doFlushIfNeed(force bool) {
	if force || log.Buf.Len() >= log.BufferSize || log.checkFlushTime() {
		buf := log.Buf
		log.Buf = new(bytes.Buffer)
		log.logCh <- buf
		log.lastFlushTime = time.Now()
	}
}

func (log *SimpleLog) checkFlushTime() bool {
	return time.Now().After(log.lastFlushTime.Add(log.flushTime))
}

type logFlusher struct {
	fileName string
	f        *os.File
	logCh    <-chan *bytes.Buffer
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
	}, nil
}

func (flusher *logFlusher) close() error {
	return flusher.f.Close()
}

func (flusher *logFlusher) flushLog(done chan<- struct{}) {
	defer close(done)
	for buf := range flusher.logCh {
		// NOTE: We ignore the returned value of writeTo.
		buf.WriteTo(flusher.f)
	}
	flusher.close()
}
