package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Everforest Dark palette
const (
	colorFg       = "\x1b[38;5;223m" // Soft beige (#d3c6aa)
	colorGreenMid = "\x1b[38;5;107m" // Mid green (#83c092) - components
	colorAqua     = "\x1b[38;5;109m" // Blue-green (#7fbbb3) - field keys
	colorYellow   = "\x1b[38;5;179m" // Soft yellow (#dbbc7f) - warnings
	colorRed      = "\x1b[38;5;167m" // Warm red (#e67e80) - errors
	colorRedBg    = "\x1b[48;5;52m"
	colorYellowBg = "\x1b[48;5;58m"
	colorGrey     = "\x1b[38;5;245m" // debug
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "WARN  generate  Check: 'test.a' variant 'v1' redefines value 1  pref=test.a"
//
// Info lines carry no level label so routine progress reads like plain output.
// Every field is printed as key=value.
type minimalEncoder struct {
	// fields attached with Logger.With
	*zapcore.MapObjectEncoder
	color bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		color:            color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := newMinimalEncoder(enc.color)
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	// Level: only shown when it is not INFO
	if label := enc.levelString(ent.Level); label != "" {
		final.AppendString(label)
		final.AppendString("  ")
	}

	// Component name (abbreviated)
	if ent.LoggerName != "" {
		final.AppendString(enc.paint(colorGreenMid, abbreviateName(ent.LoggerName)))
		final.AppendString("  ")
	}

	final.AppendString(enc.paint(colorFg, ent.Message))

	// Context fields sorted by key, then call-site fields in order
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		enc.appendField(final, k, enc.Fields[k])
	}

	for _, field := range fields {
		m := zapcore.NewMapObjectEncoder()
		field.AddTo(m)
		names := make([]string, 0, len(m.Fields))
		for k := range m.Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			// %+v of a wrapped error; the stack trace belongs in JSON output
			if strings.HasSuffix(k, "Verbose") {
				continue
			}
			enc.appendField(final, k, m.Fields[k])
		}
	}

	if ent.Stack != "" {
		final.AppendString("\n")
		final.AppendString(ent.Stack)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) appendField(buf *buffer.Buffer, key string, value interface{}) {
	buf.AppendString("  ")
	buf.AppendString(enc.paint(colorAqua, key))
	buf.AppendString("=")
	buf.AppendString(formatValue(value))
}

// formatValue flattens a value captured by a MapObjectEncoder
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(v[k])
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

// levelString returns the level label, bold and colored for WARN/ERROR
func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return enc.paint(colorGrey, "DEBUG")
	case zapcore.WarnLevel:
		return enc.paint(colorBold+colorYellowBg+colorYellow, "WARN")
	default:
		return enc.paint(colorBold+colorRedBg+colorRed, level.CapitalString())
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color {
		return s
	}
	return color + s + colorReset
}

// abbreviateName shortens component names: generate.render -> g.render
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}
