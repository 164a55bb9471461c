package tag

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propsight/tagging"
	"github.com/propsight/tagging/category"
)

// Format represents the serialization format for tag import and export.
type Format string

const (
	// FormatJSON serializes the full PropertyTags structure.
	FormatJSON Format = "json"

	// FormatCSV serializes flattened rows with the header
	// Category,Tag,Confidence,Source,Timestamp.
	FormatCSV Format = "csv"
)

// csvHeader is the fixed CSV column layout for tag exports.
var csvHeader = []string{"Category", "Tag", "Confidence", "Source", "Timestamp"}

// IsValid returns true if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// FileExtension returns the file extension for the format.
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	default:
		return ""
	}
}

// MimeType returns the MIME type for the format.
func (f Format) MimeType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat parses a string into a Format value.
// Returns an error if the string is not a valid format.
func ParseFormat(s string) (Format, error) {
	format := Format(s)
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %s", tagging.ErrInvalidFormat, s)
	}
	return format, nil
}

// AllFormats returns all valid formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatCSV}
}

// Export serializes the aggregate in the given format.
func Export(pt *PropertyTags, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(pt, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal property tags: %w", err)
		}
		return string(data), nil

	case FormatCSV:
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		if err := w.Write(csvHeader); err != nil {
			return "", fmt.Errorf("write csv header: %w", err)
		}
		for _, t := range pt.Sorted() {
			row := []string{
				t.Category.String(),
				t.Value,
				strconv.FormatFloat(t.Confidence, 'f', -1, 64),
				t.Source.String(),
				t.Timestamp.Format(time.RFC3339),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("write csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("flush csv: %w", err)
		}
		return sb.String(), nil

	default:
		return "", fmt.Errorf("%w: %s", tagging.ErrInvalidFormat, format)
	}
}

// Import parses serialized tag data and builds a replacement aggregate for the
// given property. The import is all-or-nothing: any parse failure returns
// ErrParseFailure and no aggregate.
//
// JSON imports accept the full PropertyTags structure and keep tag IDs and
// timestamps where present. CSV imports carry only the flattened columns, so
// each row gets a fresh ID.
func Import(propertyID, data string, format Format) (*PropertyTags, error) {
	switch format {
	case FormatJSON:
		var pt PropertyTags
		if err := json.Unmarshal([]byte(data), &pt); err != nil {
			return nil, fmt.Errorf("%w: %v", tagging.ErrParseFailure, err)
		}
		for i := range pt.Tags {
			if pt.Tags[i].ID == "" {
				pt.Tags[i].ID = uuid.New().String()
			}
			if pt.Tags[i].Timestamp.IsZero() {
				pt.Tags[i].Timestamp = time.Now()
			}
			if err := pt.Tags[i].Validate(); err != nil {
				return nil, fmt.Errorf("%w: tag %d: %v", tagging.ErrParseFailure, i, err)
			}
		}
		return NewPropertyTags(propertyID, pt.Tags), nil

	case FormatCSV:
		r := csv.NewReader(strings.NewReader(data))
		records, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tagging.ErrParseFailure, err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: empty csv", tagging.ErrParseFailure)
		}

		rows := records
		if isCSVHeader(records[0]) {
			rows = records[1:]
		}

		tags := make([]Tag, 0, len(rows))
		for i, row := range rows {
			t, err := tagFromCSVRow(row)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", tagging.ErrParseFailure, i+1, err)
			}
			tags = append(tags, t)
		}
		return NewPropertyTags(propertyID, tags), nil

	default:
		return nil, fmt.Errorf("%w: %s", tagging.ErrInvalidFormat, format)
	}
}

func isCSVHeader(row []string) bool {
	if len(row) != len(csvHeader) {
		return false
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(row[i], col) {
			return false
		}
	}
	return true
}

func tagFromCSVRow(row []string) (Tag, error) {
	if len(row) != len(csvHeader) {
		return Tag{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}

	cat, err := category.Parse(row[0])
	if err != nil {
		return Tag{}, err
	}
	confidence, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Tag{}, fmt.Errorf("invalid confidence %q", row[2])
	}
	source, err := ParseSource(row[3])
	if err != nil {
		return Tag{}, err
	}
	timestamp, err := time.Parse(time.RFC3339, row[4])
	if err != nil {
		return Tag{}, fmt.Errorf("invalid timestamp %q", row[4])
	}

	t := New(cat, row[1], confidence, source)
	t.Timestamp = timestamp
	return t, t.Validate()
}
