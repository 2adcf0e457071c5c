package secret

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/securebuf"
)

// Codec 在文本与 secret 字节之间转换。
type Codec interface {
	Encode(s string) ([]byte, error)
	Decode(b []byte) (string, error)
}

var (
	// UTF8 严格校验，无法无损表示时返回 XSECRET_ENCODING_FAILED。
	UTF8 Codec = utf8Codec{}

	// WhateverWorks 在合法 UTF-8 时按 UTF-8 处理，否则按 Latin-1 逐字节解码，
	// 不丢失数据，适合读取外部程序写入的 secret。
	WhateverWorks Codec = whateverCodec{}

	// UTF16LE 用于 Windows 工具（如 cmdkey）写入的凭据。奇数长度或孤立的代理项
	// 会返回 XSECRET_ENCODING_FAILED，而不是替换为 U+FFFD。
	UTF16LE Codec = utf16leCodec{textCodec{name: "utf16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}}
)

// CodecByName 解析 CLI/配置中的 codec 名称。
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", "whatever":
		return WhateverWorks, true
	case "utf8", "utf-8":
		return UTF8, true
	case "utf16le", "utf-16le":
		return UTF16LE, true
	case "latin1", "iso-8859-1":
		return FromEncoding("latin1", charmap.ISO8859_1), true
	default:
		return nil, false
	}
}

type utf8Codec struct{}

func (utf8Codec) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, encodingErr("utf8", "encode")
	}
	return []byte(s), nil
}

func (utf8Codec) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", encodingErr("utf8", "decode")
	}
	return securebuf.String(b), nil
}

type whateverCodec struct{}

func (whateverCodec) Encode(s string) ([]byte, error) {
	return []byte(s), nil
}

func (whateverCodec) Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return securebuf.String(b), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(errors.CodeEncodingFailed, "failed to decode secret", map[string]any{"codec": "whatever"}, err)
	}
	defer Wipe(out)
	return securebuf.String(out), nil
}

type textCodec struct {
	name string
	enc  encoding.Encoding
}

// FromEncoding 把 x/text 的 encoding 适配为 Codec；转换中产生的中间字节会被清零。
func FromEncoding(name string, enc encoding.Encoding) Codec {
	return textCodec{name: name, enc: enc}
}

func (c textCodec) Encode(s string) ([]byte, error) {
	in := []byte(s)
	defer Wipe(in)
	out, err := c.enc.NewEncoder().Bytes(in)
	if err != nil {
		return nil, errors.Wrap(errors.CodeEncodingFailed, "failed to encode secret", map[string]any{"codec": c.name}, err)
	}
	return out, nil
}

func (c textCodec) Decode(b []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(errors.CodeEncodingFailed, "failed to decode secret", map[string]any{"codec": c.name}, err)
	}
	defer Wipe(out)
	return securebuf.String(out), nil
}

type utf16leCodec struct {
	textCodec
}

func (c utf16leCodec) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, encodingErr(c.name, "encode")
	}
	return c.textCodec.Encode(s)
}

func (c utf16leCodec) Decode(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", encodingErr(c.name, "decode")
	}
	for i := 0; i < len(b); i += 2 {
		u := rune(b[i]) | rune(b[i+1])<<8
		if !utf16.IsSurrogate(u) {
			continue
		}
		if i+3 >= len(b) {
			return "", encodingErr(c.name, "decode")
		}
		next := rune(b[i+2]) | rune(b[i+3])<<8
		if utf16.DecodeRune(u, next) == utf8.RuneError {
			return "", encodingErr(c.name, "decode")
		}
		i += 2
	}
	return c.textCodec.Decode(b)
}

func encodingErr(codec, op string) *errors.XError {
	return errors.New(errors.CodeEncodingFailed, "secret is not valid "+codec, map[string]any{"codec": codec, "op": op})
}
