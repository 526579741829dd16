// Package parsers provides CSV and JSON loading for financial datasets.
// The CSV layer handles transaction exports with configurable column
// mappings, and the JSON layer loads the supporting dataset bundle
// (accounts, splits, budgets, debts, goals).
package parsers

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/AldyLoing/FinSight/pkg/errors"
)

// ParseError represents an error that occurred during parsing with context
type ParseError struct {
	Line    int
	Column  int
	Field   string
	Value   string
	Message string
	Err     error
}

func (pe *ParseError) Error() string {
	if pe.Field != "" {
		return fmt.Sprintf("line %d, field '%s': %s (value: '%s')", pe.Line, pe.Field, pe.Message, pe.Value)
	}
	return fmt.Sprintf("line %d: %s", pe.Line, pe.Message)
}

func (pe *ParseError) Unwrap() error {
	return pe.Err
}

// ValidationError represents a data validation error
type ValidationError struct {
	Line    int
	Field   string
	Value   string
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error at line %d, field '%s': %s (value: '%s')", ve.Line, ve.Field, ve.Message, ve.Value)
}

// ParseConfig holds common configuration for CSV parsing
type ParseConfig struct {
	HasHeader        bool
	Delimiter        rune
	Comment          rune
	TrimLeadingSpace bool
	SkipEmptyRows    bool
	MaxFieldSize     int
	ValidateEncoding bool
}

// DefaultParseConfig returns a configuration with sensible defaults
func DefaultParseConfig() *ParseConfig {
	return &ParseConfig{
		HasHeader:        true,
		Delimiter:        ',',
		Comment:          0,
		TrimLeadingSpace: true,
		SkipEmptyRows:    true,
		MaxFieldSize:     1024 * 1024, // 1MB max field size
		ValidateEncoding: true,
	}
}

// BaseParser provides common CSV parsing functionality
type BaseParser struct {
	config *ParseConfig
}

// NewBaseParser creates a new base parser with the given configuration
func NewBaseParser(config *ParseConfig) *BaseParser {
	if config == nil {
		config = DefaultParseConfig()
	}
	return &BaseParser{config: config}
}

// OpenFile opens and validates a CSV file for parsing
func (bp *BaseParser) OpenFile(filename string) (*os.File, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.FileError(errors.CodeFileNotFound, "", fmt.Errorf("filename cannot be empty"))
	}

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, filename, err).
				WithSuggestion("Check that the file path is correct and the file exists")
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, filename, err).
				WithSuggestion("Check file permissions")
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, filename, err)
	}

	// Validate file encoding if required
	if bp.config.ValidateEncoding {
		if err := bp.validateEncoding(file); err != nil {
			file.Close()
			return nil, errors.ParseError(errors.CodeEncodingError, filename, 0, "", "", err).
				WithSuggestion("Ensure the file is UTF-8 encoded")
		}
		// Reset file position after validation
		if _, err := file.Seek(0, 0); err != nil {
			file.Close()
			return nil, errors.FileError(errors.CodeFileCorrupted, filename, err)
		}
	}

	return file, nil
}

// validateEncoding checks the first portion of the file for valid UTF-8
func (bp *BaseParser) validateEncoding(file *os.File) error {
	scanner := bufio.NewScanner(file)
	lineCount := 0

	for scanner.Scan() && lineCount < 100 { // Check first 100 lines
		line := scanner.Bytes()
		if !utf8.Valid(line) {
			return fmt.Errorf("invalid UTF-8 encoding detected at line %d", lineCount+1)
		}
		lineCount++
	}

	return scanner.Err()
}

// configureReader sets up a CSV reader with the parser's configuration
func (bp *BaseParser) configureReader(reader *csv.Reader) {
	reader.Comma = bp.config.Delimiter
	reader.Comment = bp.config.Comment
	reader.TrimLeadingSpace = bp.config.TrimLeadingSpace
	reader.FieldsPerRecord = -1 // Allow variable number of fields
}

// ParseContext holds state during a parsing operation
type ParseContext struct {
	LineNumber int
	Headers    []string
	HeaderMap  map[string]int
	Cancelled  bool
}

// NewParseContext creates a new parsing context
func NewParseContext() *ParseContext {
	return &ParseContext{
		LineNumber: 0,
		HeaderMap:  make(map[string]int),
	}
}

// GetColumnIndex returns the index of a column by name, case-insensitive
func (pc *ParseContext) GetColumnIndex(columnName string) (int, bool) {
	if idx, exists := pc.HeaderMap[columnName]; exists {
		return idx, true
	}

	lowerName := strings.ToLower(columnName)
	for header, idx := range pc.HeaderMap {
		if strings.ToLower(header) == lowerName {
			return idx, true
		}
	}

	return 0, false
}

// ReadHeaders reads and processes the header row
func (bp *BaseParser) ReadHeaders(reader *csv.Reader, context *ParseContext) error {
	if !bp.config.HasHeader {
		return nil
	}

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &ParseError{
				Line:    1,
				Message: "file is empty or contains no header row",
				Err:     err,
			}
		}
		return &ParseError{
			Line:    1,
			Message: "failed to read header row",
			Err:     err,
		}
	}

	context.LineNumber = 1
	context.Headers = make([]string, len(headers))
	for i, header := range headers {
		trimmed := strings.TrimSpace(header)
		context.Headers[i] = trimmed
		context.HeaderMap[trimmed] = i
	}

	return nil
}

// ReadRecord reads the next data record, skipping empty rows when configured
func (bp *BaseParser) ReadRecord(reader *csv.Reader, context *ParseContext) ([]string, error) {
	for {
		record, err := reader.Read()
		if err != nil {
			return nil, err
		}

		context.LineNumber++

		if bp.config.SkipEmptyRows && isEmptyRecord(record) {
			continue
		}

		// Enforce max field size
		for i, field := range record {
			if bp.config.MaxFieldSize > 0 && len(field) > bp.config.MaxFieldSize {
				return nil, &ParseError{
					Line:    context.LineNumber,
					Column:  i + 1,
					Message: fmt.Sprintf("field exceeds maximum size of %d bytes", bp.config.MaxFieldSize),
				}
			}
		}

		return record, nil
	}
}

// isEmptyRecord checks if a CSV record contains only empty fields
func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// GetFieldValue safely extracts a field value from a record by column index
func (bp *BaseParser) GetFieldValue(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

// ParseStats tracks statistics during a parsing operation
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	RecordsValid  int
	ErrorCount    int
	Errors        []error
}

// NewParseStats creates a new statistics tracker
func NewParseStats() *ParseStats {
	return &ParseStats{
		Errors: make([]error, 0),
	}
}

// AddError records a parsing error
func (ps *ParseStats) AddError(err error) {
	ps.ErrorCount++
	ps.Errors = append(ps.Errors, err)
}

// HasErrors returns true if any errors were recorded
func (ps *ParseStats) HasErrors() bool {
	return ps.ErrorCount > 0
}

// String returns a summary of the parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("parsed %d/%d records successfully (%d errors)",
		ps.RecordsValid, ps.RecordsParsed, ps.ErrorCount)
}

// GetSampleErrors returns up to maxSamples of the recorded errors
func (ps *ParseStats) GetSampleErrors(maxSamples int) []error {
	if len(ps.Errors) <= maxSamples {
		return ps.Errors
	}
	return ps.Errors[:maxSamples]
}
