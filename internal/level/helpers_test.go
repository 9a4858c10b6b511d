package level

import (
	"io"

	"github.com/sirupsen/logrus"
)

func logrusDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
