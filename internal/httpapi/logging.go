package httpapi

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("LLMGATE_LOG_LEVEL"))

// SetLogLevel replaces the default request log level ("off", "error", "info", "debug").
func SetLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

func logStart(r *http.Request, lvl LogLevel, op, model string) {
	if lvl < LevelInfo {
		return
	}
	if zlog == nil {
		log.Printf("%s start path=%s model=%s", op, r.URL.Path, model)
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("model", model)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(op + " start")
}

// logEnd writes the completion line. Failures are logged from LevelError
// upwards, successes from LevelInfo.
func logEnd(r *http.Request, lvl LogLevel, op string, status int, start time.Time, err error) {
	if lvl == LevelOff || (err == nil && lvl < LevelInfo) {
		return
	}
	dur := time.Since(start)
	if zlog == nil {
		if err != nil {
			log.Printf("%s end status=%d dur=%s err=%v", op, status, dur, err)
		} else {
			log.Printf("%s end status=%d dur=%s", op, status, dur)
		}
		return
	}
	z := zlog.Info()
	if err != nil {
		z = zlog.Error().Err(err)
	}
	z = z.Int("status", status).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(op + " end")
}
