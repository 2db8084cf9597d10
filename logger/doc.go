// Package logger provides structured logging for restkit on top of zerolog.
//
// Loggers are plain values: construct one from Config, tag it with a
// component name and hand it to the clients that need it.
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "billing")
//	log.WithComponent("httpclient").Info("request sent", logger.Fields("status", 200))
package logger
