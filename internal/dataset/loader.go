package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"conflictdash/adapters/excel"
	"conflictdash/domain/record"
	"conflictdash/internal"
	"conflictdash/internal/errors"
)

// Column headers the input file must carry
const (
	ColYear                 = "Year"
	ColMonth                = "Month"
	ColQuarter              = "Quarter"
	ColEvents               = "Events"
	ColFatalities           = "Fatalities"
	ColEventsCategory       = "Events_Category"
	ColFatalitiesCategory   = "Fatalities_Category"
	ColCumulativeEvents     = "Cumulative_Events"
	ColCumulativeFatalities = "Cumulative_Fatalities"
	ColIsFatal              = "Is_Fatal"
)

// RequiredColumns is the input schema, in documentation order
var RequiredColumns = []string{
	ColYear, ColMonth, ColQuarter, ColEvents, ColFatalities,
	ColEventsCategory, ColFatalitiesCategory, ColCumulativeEvents, ColCumulativeFatalities, ColIsFatal,
}

// Dataset is the full, immutable collection of monthly records in file order
type Dataset struct {
	records  []record.Record
	path     string
	loadedAt time.Time
}

// Records returns the rows. Callers must treat the slice as read-only.
func (d *Dataset) Records() []record.Record {
	return d.records
}

func (d *Dataset) Len() int {
	return len(d.records)
}

func (d *Dataset) Path() string {
	return d.path
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// New wraps already-parsed records; used by tests and by FromTable
func New(records []record.Record) *Dataset {
	return &Dataset{records: records, loadedAt: time.Now()}
}

// Load reads and parses the dataset file at path
func Load(path string, logger *internal.Logger) (*Dataset, error) {
	data, err := excel.NewDataReader(path).WithLogger(logger).ReadData()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset %s", path)
	}

	ds, err := FromTable(data, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse dataset %s", path)
	}
	ds.path = path

	logger.Info("[Dataset] Loaded %d monthly records from %s", ds.Len(), path)
	return ds, nil
}

// FromTable validates the schema and converts raw rows into records
func FromTable(data *excel.ExcelData, logger *internal.Logger) (*Dataset, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if !data.HasHeader(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.SchemaMismatch("missing required columns: " + strings.Join(missing, ", "))
	}

	type yearMonth struct {
		year  int
		month time.Month
	}
	seen := make(map[yearMonth]int, len(data.Rows))
	records := make([]record.Record, 0, len(data.Rows))

	for i, row := range data.Rows {
		// Line numbers are 1-based and count the header.
		line := i + 2
		rec, err := parseRow(row)
		if err != nil {
			return nil, errors.DataUnavailable(fmt.Sprintf("malformed row at line %d", line), err)
		}

		month, _ := record.ParseMonth(rec.Month)
		key := yearMonth{rec.Year, month}
		if first, dup := seen[key]; dup {
			return nil, errors.DataUnavailable(fmt.Sprintf("duplicate record for %s at lines %d and %d", rec.MonthYear, first, line), nil)
		}
		seen[key] = line

		if raw := row[ColQuarter]; raw != "" && normalizeQuarter(raw) != rec.Quarter {
			logger.Warn("[Dataset] Line %d: quarter %q does not match %s, using %s", line, raw, rec.Month, rec.Quarter)
		}

		records = append(records, rec)
	}

	checkCumulative(records, logger)

	return New(records), nil
}

func parseRow(row excel.RawRowData) (record.Record, error) {
	var rec record.Record

	year, err := parseCount(row[ColYear])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColYear, err)
	}
	month, err := record.ParseMonth(row[ColMonth])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColMonth, err)
	}

	counts := []struct {
		col string
		dst *int
	}{
		{ColEvents, &rec.Events},
		{ColFatalities, &rec.Fatalities},
		{ColCumulativeEvents, &rec.CumulativeEvents},
		{ColCumulativeFatalities, &rec.CumulativeFatalities},
	}
	for _, c := range counts {
		v, err := parseCount(row[c.col])
		if err != nil {
			return rec, fmt.Errorf("%s: %w", c.col, err)
		}
		*c.dst = v
	}

	isFatal, err := parseFlag(row[ColIsFatal])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColIsFatal, err)
	}

	rec.Year = year
	rec.Month = record.Months[month-1]
	rec.Quarter = record.QuarterOf(month)
	rec.EventsCategory = row[ColEventsCategory]
	rec.FatalitiesCategory = row[ColFatalitiesCategory]
	rec.IsFatal = isFatal
	rec.Date = record.FirstOfMonth(year, month)
	rec.MonthYear = record.MonthYearLabel(year, month)
	return rec, nil
}

// parseCount accepts non-negative integers, including spreadsheet renderings such as "12.0"
func parseCount(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative value %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", value)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative value %q", value)
	}
	if f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("value out of range: %q", value)
	}
	return int(f), nil
}

func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1", "1.0", "fatal", "y", "t":
		return true, nil
	case "false", "no", "0", "0.0", "non-fatal", "nonfatal", "n", "f":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", value)
}

// checkCumulative warns when running totals decrease over time; the columns are upstream-owned
func checkCumulative(records []record.Record, logger *internal.Logger) {
	ordered := make([]record.Record, len(records))
	copy(ordered, records)
	sortByDate(ordered)

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.CumulativeEvents < prev.CumulativeEvents || cur.CumulativeFatalities < prev.CumulativeFatalities {
			logger.Warn("[Dataset] Cumulative totals decrease between %s and %s", prev.MonthYear, cur.MonthYear)
		}
	}
}

// normalizeQuarter maps "Q1", "q1", "1" and "Quarter 1" to "Q1"
func normalizeQuarter(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.TrimPrefix(v, "QUARTER")
	v = strings.TrimPrefix(strings.TrimSpace(v), "Q")
	return "Q" + strings.TrimSpace(v)
}

func sortByDate(records []record.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
