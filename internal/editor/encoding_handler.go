// Package editor reads and writes LaTeX sources in their on-disk encodings.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"texclean/internal/logger"
	"texclean/internal/types"
)

const (
	// EncodingAuto detects a BOM, UTF-8 or GBK per input
	EncodingAuto = "auto"
	// EncodingUTF8BOM is UTF-8 with a leading byte order mark
	EncodingUTF8BOM = "utf-8-bom"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset is a resolved character encoding and its canonical name.
type Charset struct {
	Name string
	enc  encoding.Encoding
}

// Decode converts data to a UTF-8 string.
func (c Charset) Decode(data []byte) (string, error) {
	if c.Name == "utf-8" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(data), nil
	}
	out, _, err := transform.Bytes(c.enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", c.Name, err)
	}
	return string(out), nil
}

// Encode converts text back to the charset. Runes the charset cannot
// represent are an error.
func (c Charset) Encode(text string) ([]byte, error) {
	if c.Name == "utf-8" {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", c.Name, err)
	}
	return out, nil
}

// LookupCharset resolves a WHATWG label such as "utf8", "latin1" or "gbk",
// plus "utf-8-bom".
func LookupCharset(label string) (Charset, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case EncodingUTF8BOM, "utf8-bom", "utf-8-sig":
		return Charset{Name: EncodingUTF8BOM, enc: unicode.UTF8BOM}, nil
	case "utf-16le":
		return Charset{Name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}, nil
	case "utf-16be":
		return Charset{Name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)}, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return Charset{}, types.NewAppErrorWithDetails(types.ErrEncoding, "unknown encoding", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return Charset{Name: name, enc: enc}, nil
}

// DetectCharset guesses the encoding of data: a BOM wins, then valid UTF-8,
// then GBK when it decodes without replacement characters.
func DetectCharset(data []byte) (Charset, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return LookupCharset(EncodingUTF8BOM)
	case bytes.HasPrefix(data, bomUTF16LE):
		return LookupCharset("utf-16le")
	case bytes.HasPrefix(data, bomUTF16BE):
		return LookupCharset("utf-16be")
	case utf8.Valid(data):
		return Charset{Name: "utf-8", enc: unicode.UTF8}, nil
	case isValidGBK(data):
		return Charset{Name: "gbk", enc: simplifiedchinese.GBK}, nil
	}
	return Charset{}, types.NewAppError(types.ErrEncoding, "could not detect encoding, pass --encoding", nil)
}

func isValidGBK(data []byte) bool {
	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return false
	}
	return utf8.Valid(decoded) && !bytes.ContainsRune(decoded, utf8.RuneError)
}

// Document is a decoded input together with what is needed to write it back.
type Document struct {
	Path    string
	Text    string
	Charset Charset
	Mode    os.FileMode
	Size    int64
}

// EncodingHandler decodes inputs with a fixed charset or by detection.
type EncodingHandler struct {
	label   string
	charset *Charset
}

// NewEncodingHandler creates an EncodingHandler for label, which is either
// "auto" or anything LookupCharset accepts.
func NewEncodingHandler(label string) (*EncodingHandler, error) {
	if label == "" || strings.EqualFold(label, EncodingAuto) {
		return &EncodingHandler{label: EncodingAuto}, nil
	}
	cs, err := LookupCharset(label)
	if err != nil {
		return nil, err
	}
	return &EncodingHandler{label: cs.Name, charset: &cs}, nil
}

// Label returns "auto" or the canonical name of the fixed charset.
func (h *EncodingHandler) Label() string {
	return h.label
}

// Decode converts data to text using the fixed or detected charset.
func (h *EncodingHandler) Decode(data []byte) (string, Charset, error) {
	var cs Charset
	if h.charset != nil {
		cs = *h.charset
	} else {
		detected, err := DetectCharset(data)
		if err != nil {
			return "", Charset{}, err
		}
		cs = detected
	}

	text, err := cs.Decode(data)
	if err != nil {
		return "", cs, types.NewAppError(types.ErrEncoding, "failed to decode input", err)
	}
	logger.Debug("decoded input", logger.String("encoding", cs.Name), logger.Int("bytes", len(data)))
	return text, cs, nil
}

// ReadFile reads and decodes the file at path.
func (h *EncodingHandler) ReadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "input file not found", path, err)
		}
		return nil, types.NewAppErrorWithDetails(types.ErrIO, "failed to stat input", path, err)
	}
	if info.IsDir() {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput, "input is a directory", path, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrIO, "failed to read input", path, err)
	}

	doc, err := h.newDocument(path, data)
	if err != nil {
		return nil, err
	}
	doc.Mode = info.Mode().Perm()
	return doc, nil
}

// Read reads and decodes everything from r. name labels the document in
// messages, usually "-" for stdin.
func (h *EncodingHandler) Read(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrIO, "failed to read input", name, err)
	}
	return h.newDocument(name, data)
}

func (h *EncodingHandler) newDocument(path string, data []byte) (*Document, error) {
	text, cs, err := h.Decode(data)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Details == "" {
			appErr.Details = path
		}
		return nil, err
	}
	return &Document{
		Path:    path,
		Text:    text,
		Charset: cs,
		Mode:    0644,
		Size:    int64(len(data)),
	}, nil
}

// Encode renders text in the charset the document was read with.
func (d *Document) Encode(text string) ([]byte, error) {
	data, err := d.Charset.Encode(text)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrEncoding, "failed to encode output", d.Path, err)
	}
	return data, nil
}
