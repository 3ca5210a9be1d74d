package phpserial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Encode renders a value tree in the legacy text grammar. String length
// prefixes are UTF-8 byte counts, never rune counts; array prefixes are
// element counts.
func Encode(v Value) (string, error) {
	var sb strings.Builder
	if err := encode(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func encode(sb *strings.Builder, v Value) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("N;")
	case KindBool:
		if v.boolVal {
			sb.WriteString("b:1;")
		} else {
			sb.WriteString("b:0;")
		}
	case KindInt:
		sb.WriteString("i:")
		sb.WriteString(strconv.FormatInt(v.intVal, 10))
		sb.WriteByte(';')
	case KindFloat:
		sb.WriteString("d:")
		sb.WriteString(formatFloat(v.f64Val))
		sb.WriteByte(';')
	case KindString:
		encodeString(sb, v.strVal)
	case KindArray:
		sb.WriteString("a:")
		sb.WriteString(strconv.Itoa(len(v.entries)))
		sb.WriteString(":{")
		for _, e := range v.entries {
			if e.Key.isString {
				encodeString(sb, e.Key.strKey)
			} else {
				sb.WriteString("i:")
				sb.WriteString(strconv.FormatInt(e.Key.intKey, 10))
				sb.WriteByte(';')
			}
			if err := encode(sb, e.Value); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("phpserial: unsupported value kind %v", v.kind)
	}
	return nil
}

func encodeString(sb *strings.Builder, s string) {
	sb.WriteString("s:")
	sb.WriteString(strconv.Itoa(len(s)))
	sb.WriteString(`:"`)
	sb.WriteString(s)
	sb.WriteString(`";`)
}

// formatFloat matches the store's expectation that an integral float
// carries no fractional part (d:10; rather than d:10.0;).
func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
