package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// sniffSize is how much of a file MIME detection looks at.
const sniffSize = 4096

// At most this share of control bytes is tolerated in text that is not
// valid UTF-8 (Latin-1 and similar single-byte encodings).
const maxControlPercent = 30

// Encoding is the text encoding announced by a byte order mark.
type Encoding uint8

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

// Extensions that are never previewed as text, whatever their head looks
// like. Images are listed too: they have their own previewer.
var binaryExtensions = func() map[string]struct{} {
	exts := strings.Fields(`
		.7z .a .apk .bin .bz2 .class .dat .dll .doc .docx .dylib .exe .jar .o .so .wasm
		.iso .gz .tar .tgz .xz .zip .zst
		.avi .flac .mkv .mov .mp3 .mp4 .ogg .wav
		.bmp .gif .ico .jpeg .jpg .png .psd .webp
		.otf .ttf .woff .woff2
		.pdf .ppt .pptx .xls .xlsx .sqlite .db`)
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}()

// DetectEncoding reads the byte order mark at the start of head.
func DetectEncoding(head []byte) Encoding {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingUTF8BOM
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

// LooksLikeText reports whether head, the start of the file called name,
// should be previewed as text. head may end in the middle of a rune.
func LooksLikeText(name string, head []byte) bool {
	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return false
	}
	if len(head) == 0 || DetectEncoding(head) != EncodingUTF8 {
		return true
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	if utf8.Valid(trimPartialRune(head)) {
		return true
	}

	control := 0
	for _, b := range head {
		if b == 0x7F || (b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' && b != 0x1B) {
			control++
		}
	}
	return control*100/len(head) < maxControlPercent
}

// SniffText reads the head of path and reports whether it is text.
func SniffText(path string) (bool, error) {
	head, err := readHead(path, sniffSize)
	if err != nil {
		return false, err
	}
	return LooksLikeText(path, head), nil
}

// ReadText reads at most limit bytes of path and decodes them to UTF-8.
// isText is false, with an empty string, for binary content.
func ReadText(path string, limit int64) (text string, isText bool, err error) {
	head, err := readHead(path, limit)
	if err != nil {
		return "", false, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !LooksLikeText(path, head) {
		return "", false, nil
	}
	return DecodeText(head), true, nil
}

// DecodeText converts content to UTF-8 according to its byte order mark.
// A code unit or rune cut off at the end of content is dropped.
func DecodeText(content []byte) string {
	switch DetectEncoding(content) {
	case EncodingUTF8BOM:
		return string(trimPartialRune(content[3:]))
	case EncodingUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case EncodingUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	default:
		return string(trimPartialRune(content))
	}
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	content = content[:len(content)&^1]
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return strings.TrimSuffix(string(out), string(utf8.RuneError))
}

// trimPartialRune drops an incomplete UTF-8 sequence at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < 0x80 {
			return b
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}

func readHead(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}
