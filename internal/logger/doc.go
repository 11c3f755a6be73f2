// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - key-value helpers (DebugKV, InfoKV, WarnKV).
//
// The bundler services accept a context and extract the logger from it, so
// every assembly step is logged under the scope its caller set up.
package logger
