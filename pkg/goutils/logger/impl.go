/*
 * Copyright (c) 2020-present unTill Pro, Ltd.
 * @author Maxim Geraskin
 *
 * This source code is licensed under the MIT license found in the
 * LICENSE file in the root directory of this source tree.
 */

package logger

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type ctxKey struct{}

type logPrinter struct {
	logLevel TLogLevel
}

var globalLogPrinter = logPrinter{logLevel: LogLevelInfo}

func isEnabled(logLevel TLogLevel) bool {
	curLogLevel := TLogLevel(atomic.LoadInt32((*int32)(&globalLogPrinter.logLevel)))
	return curLogLevel >= logLevel
}

func printIfLevel(skipStackFrames int, level TLogLevel, args ...interface{}) {
	if isEnabled(level) {
		globalLogPrinter.print(skipStackFramesBase+skipStackFrames, level, args...)
	}
}

func getLevelPrefix(level TLogLevel) string {
	switch level {
	case LogLevelError:
		return errorPrefix
	case LogLevelWarning:
		return warningPrefix
	case LogLevelInfo:
		return infoPrefix
	case LogLevelVerbose:
		return verbosePrefix
	case LogLevelTrace:
		return tracePrefix
	}
	return ""
}

func getFuncName(skipStackFrames int) (funcName string, line int) {
	return globalLogPrinter.getFuncName(skipStackFrames + 1)
}

func (p *logPrinter) getFuncName(skipStackFrames int) (funcName string, line int) {
	pc, _, line, ok := runtime.Caller(skipStackFrames)
	if !ok {
		return "", 0
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", line
	}
	funcName = fn.Name()
	if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
		funcName = funcName[idx+1:]
	}
	return funcName, line
}

func (p *logPrinter) getFormattedMsg(msgType string, funcName string, line int, args ...interface{}) string {
	var out strings.Builder
	out.WriteString(time.Now().Format(timeLayout))
	out.WriteString(": ")
	out.WriteString(msgType)
	out.WriteString(fmt.Sprintf(": [%s:%d]:", funcName, line))
	for _, arg := range args {
		out.WriteString(" ")
		out.WriteString(fmt.Sprint(arg))
	}
	return out.String()
}

func (p *logPrinter) print(skipStackFrames int, level TLogLevel, args ...interface{}) {
	funcName, line := p.getFuncName(skipStackFrames)
	PrintLine(level, p.getFormattedMsg(getLevelPrefix(level), funcName, line, args...))
}
