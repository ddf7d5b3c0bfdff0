package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ls-toolkit/lstoolkit/pkg/elog"
)

var log elog.View = &elog.CLI{}

func main() {
	commandInit()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
	if errorStatusCode != 0 {
		if errorStatusMessage != nil {
			logrus.Errorf("%v", errorStatusMessage)
		}
		os.Exit(errorStatusCode)
	}
}

var errorStatusCode int
var errorStatusMessage error

// setError records the outcome of a failed command so main can choose the
// process exit code after cobra returns, the same two-step pattern the
// teacher's CLI uses rather than calling os.Exit from inside a Run func.
func setError(err error, code int) {
	errorStatusCode = code
	errorStatusMessage = err
}
