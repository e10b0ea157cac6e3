/*
Copyright © 2017 the ClusterDyn authors.
This file is part of ClusterDyn.

ClusterDyn is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ClusterDyn is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ClusterDyn.  If not, see <http://www.gnu.org/licenses/>.
*/

package clusterdyn

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

// logger is the package logger. It discards output unless a caller
// installs its own logger with SetLogger.
var logger = func() *logrus.Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}()

// SetLogger installs the logger used by the package.
func SetLogger(l *logrus.Logger) { logger = l }
