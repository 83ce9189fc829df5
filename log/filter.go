package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// FilterOption returns an option which only passes entries matching rules.
// The rules use the zapfilter syntax, e.g. "debug:chart,geomap info:*".
// An empty rule set returns a no-op option.
func FilterOption(rules string) (Option, error) {
	if rules == "" {
		return zap.WrapCore(func(c zapcore.Core) zapcore.Core { return c }), nil
	}
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, err
	}
	return zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapfilter.NewFilteringCore(c, filter)
	}), nil
}
