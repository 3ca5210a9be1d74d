package phpserial

import (
	"fmt"
	"strconv"
	"strings"
)

// Decode parses one serialized value and requires the input to be fully
// consumed. It exists to verify round-trips; the import path itself only
// encodes.
func Decode(data string) (Value, error) {
	d := &decoder{src: data}
	v, err := d.value()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.src) {
		return Value{}, fmt.Errorf("phpserial: trailing data at offset %d", d.pos)
	}
	return v, nil
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) value() (Value, error) {
	tag, err := d.byte()
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case 'N':
		if err := d.expect(";"); err != nil {
			return Value{}, err
		}
		return Null(), nil
	case 'b':
		body, err := d.scalarBody()
		if err != nil {
			return Value{}, err
		}
		switch body {
		case "0":
			return Bool(false), nil
		case "1":
			return Bool(true), nil
		}
		return Value{}, fmt.Errorf("phpserial: invalid bool payload %q", body)
	case 'i':
		body, err := d.scalarBody()
		if err != nil {
			return Value{}, err
		}
		i, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("phpserial: invalid int payload %q", body)
		}
		return Int(i), nil
	case 'd':
		body, err := d.scalarBody()
		if err != nil {
			return Value{}, err
		}
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Value{}, fmt.Errorf("phpserial: invalid float payload %q", body)
		}
		return Float(f), nil
	case 's':
		s, err := d.stringBody()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case 'a':
		return d.arrayBody()
	default:
		return Value{}, fmt.Errorf("phpserial: unknown tag %q at offset %d", tag, d.pos-1)
	}
}

// scalarBody reads ":<payload>;" after a b/i/d tag.
func (d *decoder) scalarBody() (string, error) {
	if err := d.expect(":"); err != nil {
		return "", err
	}
	end := strings.IndexByte(d.src[d.pos:], ';')
	if end < 0 {
		return "", fmt.Errorf("phpserial: unterminated scalar at offset %d", d.pos)
	}
	body := d.src[d.pos : d.pos+end]
	d.pos += end + 1
	return body, nil
}

// stringBody reads `:<byteLen>:"<bytes>";` after an s tag. The byte length
// drives how much payload is consumed, so embedded quotes survive.
func (d *decoder) stringBody() (string, error) {
	if err := d.expect(":"); err != nil {
		return "", err
	}
	n, err := d.length()
	if err != nil {
		return "", err
	}
	if err := d.expect(`:"`); err != nil {
		return "", err
	}
	if d.pos+n > len(d.src) {
		return "", fmt.Errorf("phpserial: string payload truncated at offset %d", d.pos)
	}
	s := d.src[d.pos : d.pos+n]
	d.pos += n
	if err := d.expect(`";`); err != nil {
		return "", err
	}
	return s, nil
}

func (d *decoder) arrayBody() (Value, error) {
	if err := d.expect(":"); err != nil {
		return Value{}, err
	}
	count, err := d.length()
	if err != nil {
		return Value{}, err
	}
	if err := d.expect(":{"); err != nil {
		return Value{}, err
	}
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		key, err := d.key()
		if err != nil {
			return Value{}, err
		}
		val, err := d.value()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}
	if err := d.expect("}"); err != nil {
		return Value{}, err
	}
	return Array(entries...), nil
}

func (d *decoder) key() (Key, error) {
	tag, err := d.byte()
	if err != nil {
		return Key{}, err
	}
	switch tag {
	case 'i':
		body, err := d.scalarBody()
		if err != nil {
			return Key{}, err
		}
		i, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("phpserial: invalid int key %q", body)
		}
		return IntKey(i), nil
	case 's':
		s, err := d.stringBody()
		if err != nil {
			return Key{}, err
		}
		return StringKey(s), nil
	default:
		return Key{}, fmt.Errorf("phpserial: array key must be int or string, got tag %q", tag)
	}
}

func (d *decoder) length() (int, error) {
	start := d.pos
	for d.pos < len(d.src) && d.src[d.pos] >= '0' && d.src[d.pos] <= '9' {
		d.pos++
	}
	if d.pos == start {
		return 0, fmt.Errorf("phpserial: expected length at offset %d", start)
	}
	n, err := strconv.Atoi(d.src[start:d.pos])
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.src) {
		return 0, fmt.Errorf("phpserial: unexpected end of input")
	}
	b := d.src[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) expect(lit string) error {
	if !strings.HasPrefix(d.src[d.pos:], lit) {
		return fmt.Errorf("phpserial: expected %q at offset %d", lit, d.pos)
	}
	d.pos += len(lit)
	return nil
}
