package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/keytar/internal/errors"
)

// TableFormatter 由可以按行列展示的数据实现；ok=false 时退回通用 envelope 展示。
type TableFormatter interface {
	ToTableData() (columns []string, rows []map[string]any, ok bool)
}

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.write(format, OK(data))
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	return w.write(format, Fail(xe))
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

func tableData(env Envelope) ([]string, []map[string]any, bool) {
	if !env.OK || env.Data == nil {
		return nil, nil, false
	}
	tf, ok := env.Data.(TableFormatter)
	if !ok {
		return nil, nil, false
	}
	return tf.ToTableData()
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	if cols, rows, ok := tableData(env); ok {
		_, _ = fmt.Fprintln(tw, strings.Join(upper(cols), "\t"))
		for _, row := range rows {
			cells := make([]string, len(cols))
			for i, c := range cols {
				cells[i] = formatCellValue(row[c])
			}
			_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if len(rows) == 0 {
			_, _ = fmt.Fprintln(tw, "(0 rows)")
		}
		return tw.Flush()
	}

	if env.OK {
		_, _ = fmt.Fprintf(tw, "ok\t%v\n", true)
		_, _ = fmt.Fprintf(tw, "schema_version\t%d\n", env.SchemaVersion)
		if env.Data != nil {
			b, _ := json.MarshalIndent(env.Data, "", "  ")
			_, _ = fmt.Fprintf(tw, "data\t%s\n", strings.ReplaceAll(string(b), "\n", " "))
		}
	} else {
		_, _ = fmt.Fprintf(tw, "ok\t%v\n", false)
		_, _ = fmt.Fprintf(tw, "schema_version\t%d\n", env.SchemaVersion)
		if env.Error != nil {
			_, _ = fmt.Fprintf(tw, "error.code\t%s\n", env.Error.Code)
			_, _ = fmt.Fprintf(tw, "error.message\t%s\n", env.Error.Message)
		}
	}
	return tw.Flush()
}

func writeCSV(out io.Writer, env Envelope) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()
	if cols, rows, ok := tableData(env); ok {
		_ = cw.Write(cols)
		for _, row := range rows {
			rec := make([]string, len(cols))
			for i, c := range cols {
				rec[i] = formatCellValue(row[c])
			}
			_ = cw.Write(rec)
		}
		return cw.Error()
	}

	// 非表格数据只输出 envelope 概要；结构化场景建议用 json/yaml。
	if env.OK {
		_ = cw.Write([]string{"ok", "true"})
		_ = cw.Write([]string{"schema_version", fmt.Sprintf("%d", env.SchemaVersion)})
		return cw.Error()
	}
	_ = cw.Write([]string{"ok", "false"})
	_ = cw.Write([]string{"schema_version", fmt.Sprintf("%d", env.SchemaVersion)})
	if env.Error != nil {
		_ = cw.Write([]string{"error.code", string(env.Error.Code)})
		_ = cw.Write([]string{"error.message", env.Error.Message})
	}
	return cw.Error()
}

func formatCellValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<null>"
	case string:
		return x
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func upper(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToUpper(c)
	}
	return out
}
