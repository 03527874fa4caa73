package log

import (
	"io"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where entries go. An empty File logs to stdout only.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	mu     sync.RWMutex
	logger = newZap(zapcore.InfoLevel, zapcore.AddSync(os.Stdout))
)

// Setup replaces the process logger. Entries are tee'd to stdout and, when
// File is set, to a size-rotated file.
func Setup(o Options) {
	lvl := zapcore.InfoLevel
	if o.Level != "" {
		if err := lvl.Set(o.Level); err != nil {
			lvl = zapcore.InfoLevel
		}
	}
	ws := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if o.File != "" {
		ws = append(ws, zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   o.Compress,
		}))
	}
	set(newZap(lvl, zapcore.NewMultiWriteSyncer(ws...)))
}

// SetOutput sends every entry to w and returns a func restoring the previous logger.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	old := logger
	logger = newZap(zapcore.DebugLevel, zapcore.AddSync(w))
	mu.Unlock()
	return func() { set(old) }
}

func Sync() { _ = L().Sync() }

// L exposes the underlying zap logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func set(l *zap.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func newZap(lvl zapcore.Level, w zapcore.WriteSyncer) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.MessageKey = "action"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, lvl)
	return zap.New(core)
}

func write(level zapcore.Level, c *fiber.Ctx, action string, err error, fields map[string]any, extra ...zap.Field) {
	zf := make([]zap.Field, 0, 8+len(extra))
	if c != nil {
		zf = append(zf,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			zf = append(zf, zap.String("req_id", rid))
		}
		if uid, ok := c.Locals("admin").(string); ok && uid != "" {
			zf = append(zf, zap.String("user_id", uid))
		}
	}
	if err != nil {
		zf = append(zf, zap.String("err", err.Error()))
	}
	if len(fields) > 0 {
		zf = append(zf, zap.Any("fields", fields))
	}
	zf = append(zf, extra...)
	if ce := L().Check(level, action); ce != nil {
		ce.Write(zf...)
	}
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, c, action, nil, fields)
}

// Audit records an admin mutation.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, c, action, nil, fields, zap.Bool("audit", true))
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.WarnLevel, c, action, nil, fields)
}

func Warn(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zapcore.WarnLevel, c, action, err, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zapcore.ErrorLevel, c, action, err, fields)
}
