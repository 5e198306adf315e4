// Copyright © 2022 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	colorRed    = 31
	colorYellow = 33
	colorBlue   = 36
	colorGray   = 37
)

const defaultTimestampFormat = "15:04:05"

func levelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return colorGray
	case logrus.WarnLevel:
		return colorYellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	default:
		return colorBlue
	}
}

// Formatter prints one line per entry: time, level, caller, message and any
// fields sorted by key.
type Formatter struct {
	DisableColor    bool
	HideLogTime     bool
	HideLogPath     bool
	TimestampFormat string
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}
	if !f.HideLogTime {
		b.WriteString(entry.Time.Format(timestampFormat))
		b.WriteByte(' ')
	}

	var line strings.Builder
	fmt.Fprintf(&line, "[%s]", strings.ToUpper(entry.Level.String()))
	if !f.HideLogPath && entry.HasCaller() {
		fmt.Fprintf(&line, " [%s:%d]", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	line.WriteByte(' ')
	line.WriteString(entry.Message)
	for _, key := range sortedKeys(entry.Data) {
		fmt.Fprintf(&line, " %s=%v", key, entry.Data[key])
	}

	if f.DisableColor {
		b.WriteString(line.String())
	} else {
		fmt.Fprintf(b, "\033[%dm%s\033[0m", levelColor(entry.Level), line.String())
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
