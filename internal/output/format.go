package output

import "strings"

type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// Formats 按 --format 帮助文本中的顺序列出所有格式。
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTable, FormatCSV, FormatAuto}
}

func IsValid(f Format) bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat 忽略大小写与首尾空白；空字符串视为 auto。
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, true
	}
	f := Format(s)
	return f, IsValid(f)
}
