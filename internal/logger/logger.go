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

// Package logger configures the global logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Options struct {
	// Dir holds gripview.log when LogToFile is set.
	Dir string
	// Verbose switches to debug level.
	Verbose      bool
	DisableColor bool
	LogToFile    bool
	// Quiet drops console output. The TUI owns the terminal, so it logs to
	// the file only.
	Quiet bool
}

func Init(opts Options) error {
	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetReportCaller(true)
	logrus.SetFormatter(&Formatter{DisableColor: opts.DisableColor})

	var out io.Writer = os.Stderr
	if opts.Quiet {
		out = io.Discard
	}
	logrus.SetOutput(out)

	if opts.LogToFile {
		fh, err := NewFileHook(opts.Dir)
		if err != nil {
			return fmt.Errorf("failed to init log file hook: %w", err)
		}
		logrus.AddHook(fh)
	}
	return nil
}
