package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/xsecret/internal/errors"
)

// TableFormatter 由需要以多列表格展示的数据实现（table/csv 格式）。
type TableFormatter interface {
	TableData() (columns []string, rows [][]string)
}

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.write(format, OKEnvelope(data))
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	return w.write(format, ErrorEnvelope(xe))
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(env)
	case FormatYAML:
		b, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = w.Out.Write(b)
		if err != nil {
			return err
		}
		if len(b) == 0 || b[len(b)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable:
		return writeTable(w.Out, env)
	case FormatCSV:
		return writeCSV(w.Out, env)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

// tableRows 把 Data 展开为行：TableFormatter 原样输出，map 按 key 排序输出 key/value，
// 结构体按 JSON 字段展开为 key/value，其余类型退化为单行 JSON。
func tableRows(data any) (columns []string, rows [][]string) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case TableFormatter:
		return d.TableData()
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []string{k, formatCell(d[k])})
		}
		return nil, rows
	default:
		if m, ok := asObject(d); ok {
			return tableRows(m)
		}
		return nil, [][]string{{"data", formatCell(d)}}
	}
}

func asObject(v any) (map[string]any, bool) {
	b, err := json.Marshal(v)
	if err != nil || len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false
	}
	return m, true
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "<null>"
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case fmt.Stringer:
		return x.String()
	case bool, int, int64:
		return fmt.Sprint(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	if !env.OK {
		_, _ = fmt.Fprintf(tw, "ok\t%v\n", false)
		if env.Error != nil {
			_, _ = fmt.Fprintf(tw, "error.code\t%s\n", env.Error.Code)
			_, _ = fmt.Fprintf(tw, "error.message\t%s\n", env.Error.Message)
		}
		return tw.Flush()
	}
	columns, rows := tableRows(env.Data)
	if len(columns) > 0 {
		_, _ = fmt.Fprintln(tw, strings.Join(columns, "\t"))
	}
	for _, r := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func writeCSV(out io.Writer, env Envelope) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()
	if !env.OK {
		_ = cw.Write([]string{"ok", "false"})
		if env.Error != nil {
			_ = cw.Write([]string{"error.code", string(env.Error.Code)})
			_ = cw.Write([]string{"error.message", env.Error.Message})
		}
		cw.Flush()
		return cw.Error()
	}
	columns, rows := tableRows(env.Data)
	if len(columns) > 0 {
		_ = cw.Write(columns)
	}
	for _, r := range rows {
		_ = cw.Write(r)
	}
	cw.Flush()
	return cw.Error()
}
