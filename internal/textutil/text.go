package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

const (
	TabWidth = 4
)

type Decoded struct {
	Text     string
	Encoding string
}

func DetectBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	ctl := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b == 9 || b == 10 || b == 13 {
			continue
		}
		if b < 32 || b == 127 {
			ctl++
		}
	}
	ratio := float64(ctl) / float64(len(sample))
	return ratio > 0.30
}

// Decode returns data as UTF-8 text. A UTF-8 BOM is stripped; GB18030 and
// GBK are tried when the input is not valid UTF-8.
func Decode(data []byte) (Decoded, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err == nil && utf8.Valid(out) {
			return Decoded{Text: string(out), Encoding: "utf-8-bom"}, nil
		}
	}
	if utf8.Valid(data) {
		return Decoded{Text: string(data), Encoding: "utf-8"}, nil
	}
	if out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data); err == nil && utf8.Valid(out) {
		return Decoded{Text: string(out), Encoding: "gb18030"}, nil
	}
	if out, err := simplifiedchinese.GBK.NewDecoder().Bytes(data); err == nil && utf8.Valid(out) {
		return Decoded{Text: string(out), Encoding: "gbk"}, nil
	}
	return Decoded{}, fmt.Errorf("无法识别文本编码（支持 utf-8/gbk/gb18030）")
}

// SplitLines splits text on \n, \r\n and \r. A trailing line break does not
// produce an empty last line.
func SplitLines(text string) []string {
	norm := strings.ReplaceAll(text, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	if norm == "" {
		return []string{}
	}
	lines := strings.Split(norm, "\n")
	if strings.HasSuffix(norm, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func EndsWithNewline(text string) bool {
	return strings.HasSuffix(text, "\n") || strings.HasSuffix(text, "\r")
}

func DisplayWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col += TabWidth - (col % TabWidth)
			continue
		}
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		col += w
	}
	return col
}

func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func RuneColumnAtByteOffset(line string, byteOffset int) int {
	if byteOffset <= 0 {
		return 1
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	return utf8.RuneCountInString(line[:byteOffset]) + 1
}

func CompilePattern(p string, caseSensitive bool) (*regexp.Regexp, error) {
	if caseSensitive {
		return regexp.Compile(p)
	}
	return regexp.Compile("(?i)" + p)
}
