// Package monitoring содержит общий диагностический логгер.
package monitoring

import "log"

// Logf логгер пакетов движка. По умолчанию log.Printf, в тестах заменяется через SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger заменяет логгер. nil отключает вывод.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
