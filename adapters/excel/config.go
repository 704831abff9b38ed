package excel

// DefaultSheet is the worksheet read from .xlsx workbooks.
const DefaultSheet = "Sheet1"

// Config holds configuration for the file data source
type Config struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"`
}

// DefaultConfig returns a config reading DefaultSheet from path.
func DefaultConfig(path string) Config {
	return Config{FilePath: path, Sheet: DefaultSheet}
}
