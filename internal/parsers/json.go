package parsers

import (
	"encoding/json"
	"io"
	"os"

	"golang-anomaly-detection-service/internal/models"
	"golang-anomaly-detection-service/pkg/errors"
)

// ParseJSONFile reads a JSON array of transaction objects. Numbers are kept
// as json.Number so amounts reach the normalizer without float rounding.
func ParseJSONFile(filePath string) ([]models.RawRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		code := errors.CodeFileNotFound
		if os.IsPermission(err) {
			code = errors.CodeFilePermission
		}
		return nil, errors.FileError(code, filePath, err)
	}
	defer file.Close()

	records, err := ParseJSON(file)
	if err != nil {
		if detectorErr, ok := errors.AsDetectorError(err); ok {
			return nil, detectorErr.WithContext("file_path", filePath)
		}
		return nil, err
	}
	return records, nil
}

// ParseJSON decodes a JSON array of objects from r.
func ParseJSON(r io.Reader) ([]models.RawRecord, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var records []models.RawRecord
	if err := decoder.Decode(&records); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat,
			"json", 0, "body", "", err).
			WithSuggestion("provide a JSON array of transaction objects")
	}

	return records, nil
}
