package logging

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// CronLogger adapts a Logger to the cron.Logger interface so that the
// scheduler reports skipped and panicking jobs through the same sink.
type CronLogger struct {
	Logger Logger
}

// Verify interface compliance.
var _ cron.Logger = CronLogger{}

// Info implements cron.Logger. Routine scheduling chatter goes to debug.
func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.Logger.Debug(msg, kvFields(keysAndValues)...)
}

// Error implements cron.Logger.
func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.Logger.Error(msg, err, kvFields(keysAndValues)...)
}

func kvFields(kv []interface{}) []Field {
	fields := make([]Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, Field{Key: fmt.Sprint(kv[i]), Value: kv[i+1]})
	}
	return fields
}
