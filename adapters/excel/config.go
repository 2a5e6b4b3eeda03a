package excel

// ExcelConfig holds configuration for the tabular data source
type ExcelConfig struct {
	FilePath  string `json:"file_path"`
	SheetName string `json:"sheet_name"`
	// SkipBlankRows drops rows whose cells are all empty
	SkipBlankRows bool `json:"skip_blank_rows"`
}

// DefaultExcelConfig returns sensible defaults for reading the dataset
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		SheetName:     "Sheet1",
		SkipBlankRows: true,
	}
}
