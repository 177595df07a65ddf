//go:build debug

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

func init() {
	basePath, _ := filepath.Abs(".")
	logger := logrus.StandardLogger()
	logger.SetLevel(logrus.TraceLevel)
	logger.SetReportCaller(true)
	logger.Formatter.(*logrus.TextFormatter).CallerPrettyfier = func(frame *runtime.Frame) (function string, file string) {
		file = strings.TrimPrefix(frame.File, basePath+"/")
		return "", " " + file + ":" + strconv.Itoa(frame.Line)
	}
}
