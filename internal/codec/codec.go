// Package codec translates child process output bytes into UTF-8 text.
//
// The engine reads raw bytes from the child's pipes; when decoding is
// enabled, every chunk is transcoded through a Codec before it reaches
// any sink. Decoding never fails: bytes that cannot be represented are
// substituted with U+FFFD so a misbehaving child cannot abort a stream.
package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Codec decodes child output to UTF-8 and encodes engine-generated text
// back into the declared charset for text-mode file sinks.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for utf-8 passthrough
}

// Resolve returns the codec for a named encoding. An empty name means
// the platform default. Names are matched case-insensitively and
// accept the common aliases used by the platforms the engine targets.
func Resolve(name string) (*Codec, error) {
	if name == "" {
		name = defaultName
	}
	switch normalize(name) {
	case "utf8":
		return &Codec{name: "utf-8"}, nil
	case "cp437", "ibm437":
		return &Codec{name: "cp437", enc: charmap.CodePage437}, nil
	case "cp850", "ibm850":
		return &Codec{name: "cp850", enc: charmap.CodePage850}, nil
	case "latin1", "iso88591":
		return &Codec{name: "latin-1", enc: charmap.ISO8859_1}, nil
	case "windows1252", "cp1252":
		return &Codec{name: "windows-1252", enc: charmap.Windows1252}, nil
	case "utf16le":
		return &Codec{name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}, nil
	case "ascii":
		// ASCII is a strict subset of UTF-8, so it decodes as UTF-8:
		// bytes above 0x7F that form valid UTF-8 pass through, and only
		// invalid sequences are replaced.
		return &Codec{name: "ascii"}, nil
	default:
		return nil, fmt.Errorf("codec: unsupported encoding %q", name)
	}
}

// Default returns the platform default encoding name: cp437 on Windows
// (covers most cmd.exe output), utf-8 everywhere else.
func Default() string {
	return defaultName
}

// Name returns the canonical encoding name.
func (c *Codec) Name() string {
	return c.name
}

// Decode transcodes a chunk of child output to UTF-8. Undecodable
// bytes are replaced with U+FFFD; the input is never mutated and the
// result is always valid UTF-8.
func (c *Codec) Decode(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	if c.enc == nil {
		if utf8.Valid(b) {
			out := make([]byte, len(b))
			copy(out, b)
			return out
		}
		return replaceInvalidUTF8(b)
	}
	dec := c.enc.NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		// Charmap decoders are total; UTF-16 can still fail on odd
		// lengths. Salvage what decoded and substitute the rest.
		return append(out, []byte(string(utf8.RuneError))...)
	}
	return out
}

// Encode converts engine-generated UTF-8 text into the codec's charset
// for text-mode file sinks. Unsupported runes are replaced rather than
// reported.
func (c *Codec) Encode(s string) []byte {
	if c.enc == nil {
		return []byte(s)
	}
	enc := encoding.ReplaceUnsupported(c.enc.NewEncoder())
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

func normalize(name string) string {
	name = strings.ToLower(name)
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return r.Replace(name)
}

func replaceInvalidUTF8(b []byte) []byte {
	out := make([]byte, 0, len(b)+8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
		} else {
			out = append(out, b[:size]...)
		}
		b = b[size:]
	}
	return out
}
