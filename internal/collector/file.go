package collector

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"SwingScanner/internal/model"
)

// Supported file formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// fileBar is the on-disk bar layout shared by all formats. T is unix
// milliseconds.
type fileBar struct {
	T int64   `json:"t" parquet:"t"`
	O float64 `json:"o" parquet:"o"`
	H float64 `json:"h" parquet:"h"`
	L float64 `json:"l" parquet:"l"`
	C float64 `json:"c" parquet:"c"`
	V float64 `json:"v" parquet:"v"`
}

func toFileBars(bars []model.OHLCV) []fileBar {
	out := make([]fileBar, len(bars))
	for i, b := range bars {
		out[i] = fileBar{T: b.Time.UnixMilli(), O: b.Open, H: b.High, L: b.Low, C: b.Close, V: b.Volume}
	}
	return out
}

func fromFileBars(rows []fileBar) []model.OHLCV {
	out := make([]model.OHLCV, len(rows))
	for i, r := range rows {
		out[i] = model.OHLCV{Time: time.UnixMilli(r.T).UTC(), Open: r.O, High: r.H, Low: r.L, Close: r.C, Volume: r.V}
	}
	return out
}

// FileFetcher reads <dir>/<SYMBOL>.<format> bar files.
type FileFetcher struct {
	Dir    string
	Format string
}

// NewFileFetcher creates a fetcher over a directory of bar files.
func NewFileFetcher(dir, format string) *FileFetcher {
	return &FileFetcher{Dir: dir, Format: strings.ToLower(format)}
}

func (f *FileFetcher) Name() string { return "file:" + f.Format }

// Path returns the file backing symbol.
func (f *FileFetcher) Path(symbol string) string {
	return filepath.Join(f.Dir, strings.ToUpper(symbol)+"."+f.Format)
}

func (f *FileFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.Path(symbol)
	var rows []fileBar
	var err error
	switch f.Format {
	case FormatCSV:
		rows, err = readCSV(path)
	case FormatJSON:
		rows, err = readJSON(path)
	case FormatParquet:
		rows, err = parquet.ReadFile[fileBar](path)
	default:
		return nil, fmt.Errorf("unsupported format %q", f.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	bars := model.Sanitize(fromFileBars(rows))
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// Save writes bars for symbol in the fetcher's format, creating the
// directory when needed.
func (f *FileFetcher) Save(symbol string, bars []model.OHLCV) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := f.Path(symbol)
	rows := toFileBars(bars)
	switch f.Format {
	case FormatCSV:
		return writeCSV(path, rows)
	case FormatJSON:
		data, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("encode bars: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	case FormatParquet:
		return parquet.WriteFile(path, rows)
	}
	return fmt.Errorf("unsupported format %q", f.Format)
}

func readJSON(path string) ([]fileBar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []fileBar
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

var csvHeader = []string{"t", "o", "h", "l", "c", "v"}

func writeCSV(path string, rows []fileBar) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			strconv.FormatInt(r.T, 10),
			floatStr(r.O), floatStr(r.H), floatStr(r.L), floatStr(r.C), floatStr(r.V),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// readCSV accepts a t,o,h,l,c,v header. The time column may be unix
// milliseconds, RFC 3339 or a plain date. Unparseable prices become 0 and
// are dropped or filled later by sanitation.
func readCSV(path string) ([]fileBar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var rows []fileBar
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			if i := col[name]; i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		ts, err := parseTime(get("t"))
		if err != nil {
			continue
		}
		num := func(name string) float64 {
			v, _ := strconv.ParseFloat(get(name), 64)
			return v
		}
		rows = append(rows, fileBar{T: ts.UnixMilli(), O: num("o"), H: num("h"), L: num("l"), C: num("c"), V: num("v")})
	}
	return rows, nil
}

func parseTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
