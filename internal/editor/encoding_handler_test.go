package editor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texclean/internal/types"
)

func TestDetectCharset(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantName string
		wantText string
		wantErr  bool
	}{
		{name: "plain ascii", data: []byte(`\section{Intro}`), wantName: "utf-8", wantText: `\section{Intro}`},
		{name: "utf-8", data: []byte("äöü的"), wantName: "utf-8", wantText: "äöü的"},
		{name: "utf-8 with bom", data: []byte("\xEF\xBB\xBFa+b"), wantName: EncodingUTF8BOM, wantText: "a+b"},
		{name: "utf-16le with bom", data: []byte{0xFF, 0xFE, 'a', 0x00}, wantName: "utf-16le", wantText: "a"},
		{name: "utf-16be with bom", data: []byte{0xFE, 0xFF, 0x00, 'a'}, wantName: "utf-16be", wantText: "a"},
		{name: "gbk", data: []byte{0xD6, 0xD0, 0xCE, 0xC4}, wantName: "gbk", wantText: "中文"},
		{name: "undetectable", data: []byte{'a', 0xE9}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := DetectCharset(tt.data)
			if tt.wantErr {
				var appErr *types.AppError
				if !errors.As(err, &appErr) || appErr.Code != types.ErrEncoding {
					t.Fatalf("expected ENCODING_ERROR, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectCharset() error = %v", err)
			}
			if cs.Name != tt.wantName {
				t.Errorf("DetectCharset() = %s, want %s", cs.Name, tt.wantName)
			}

			text, err := cs.Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if text != tt.wantText {
				t.Errorf("Decode() = %q, want %q", text, tt.wantText)
			}

			back, err := cs.Encode(text)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(back, tt.data) {
				t.Errorf("Encode() = %x, want %x", back, tt.data)
			}
		})
	}
}

func TestLookupCharset(t *testing.T) {
	tests := []struct {
		label    string
		wantName string
		wantErr  bool
	}{
		{label: "utf8", wantName: "utf-8"},
		{label: " UTF-8 ", wantName: "utf-8"},
		{label: "utf-8-bom", wantName: EncodingUTF8BOM},
		{label: "gbk", wantName: "gbk"},
		{label: "latin1", wantName: "windows-1252"},
		{label: "utf-16le", wantName: "utf-16le"},
		{label: "klingon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			cs, err := LookupCharset(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LookupCharset(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if cs.Name != tt.wantName {
				t.Errorf("LookupCharset(%q) = %s, want %s", tt.label, cs.Name, tt.wantName)
			}
		})
	}
}

func TestCharset_EncodeUnsupportedRune(t *testing.T) {
	cs, err := LookupCharset("gbk")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Encode("smile 😀"); err == nil {
		t.Error("expected an error for a rune GBK cannot represent")
	}
}

func TestEncodingHandler_FixedCharset(t *testing.T) {
	h, err := NewEncodingHandler("latin1")
	if err != nil {
		t.Fatalf("NewEncodingHandler() error = %v", err)
	}
	if h.Label() != "windows-1252" {
		t.Errorf("Label() = %s", h.Label())
	}

	text, cs, err := h.Decode([]byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if text != "café" || cs.Name != "windows-1252" {
		t.Errorf("Decode() = %q, %s", text, cs.Name)
	}

	utf8Handler, _ := NewEncodingHandler("utf8")
	if _, _, err := utf8Handler.Decode([]byte{0xE9}); err == nil {
		t.Error("invalid UTF-8 should not decode with a fixed utf-8 charset")
	}
}

func TestEncodingHandler_ReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	h, err := NewEncodingHandler(EncodingAuto)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("reads and records mode", func(t *testing.T) {
		path := filepath.Join(tmpDir, "paper.tex")
		if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa $$b$$"), 0600); err != nil {
			t.Fatal(err)
		}

		doc, err := h.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if doc.Text != "a $$b$$" || doc.Charset.Name != EncodingUTF8BOM {
			t.Errorf("unexpected document %+v", doc)
		}
		if doc.Mode != 0600 || doc.Size != 10 {
			t.Errorf("mode %v size %d", doc.Mode, doc.Size)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := h.ReadFile(filepath.Join(tmpDir, "missing.tex"))
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrFileNotFound {
			t.Errorf("expected FILE_NOT_FOUND, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("cause should be os.ErrNotExist")
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := h.ReadFile(tmpDir)
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrInvalidInput {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})

	t.Run("undetectable names the file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "binary.tex")
		if err := os.WriteFile(path, []byte{'a', 0xE9}, 0644); err != nil {
			t.Fatal(err)
		}
		_, err := h.ReadFile(path)
		if err == nil || !strings.Contains(err.Error(), path) {
			t.Errorf("expected error naming %s, got %v", path, err)
		}
	})
}

func TestEncodingHandler_Read(t *testing.T) {
	h, _ := NewEncodingHandler("")
	doc, err := h.Read(strings.NewReader("x^2"), "-")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Path != "-" || doc.Text != "x^2" || doc.Mode != 0644 {
		t.Errorf("unexpected document %+v", doc)
	}
}
