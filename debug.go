package ntrack

import (
	"go.uber.org/zap"
)

// defaultLogger is used when WithLogger is not given to NewContext
func defaultLogger() *zap.Logger {
	return zap.L().Named("ntrack")
}

func idField(key string, id ItemID) zap.Field {
	return zap.Stringer(key, id)
}

func (c *Context) debugf(template string, args ...any) {
	if c.sugar == nil {
		c.sugar = c.log.Sugar()
	}
	c.sugar.Debugf(template, args...)
}
