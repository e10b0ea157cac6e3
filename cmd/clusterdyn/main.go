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

// clusterdyn is a command-line interface to the clusterdyn
// helium-vacancy cluster dynamics model.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	clusterdyn "github.com/materialsmodel/clusterdyn"
	"github.com/materialsmodel/clusterdyn/clusterdynutil"
)

func main() {
	log := logrus.StandardLogger()
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	clusterdyn.SetLogger(log)

	cfg := clusterdynutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
