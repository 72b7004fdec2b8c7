// Package autoload initializes the global logger from the environment on
// import. Blank-import it from main binaries.
package autoload

import (
	configx "github.com/moneylens/moneylens/pkg/config"
	logx "github.com/moneylens/moneylens/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		conf = logx.DefaultConfig
	}
	logx.Init(*conf)
}
