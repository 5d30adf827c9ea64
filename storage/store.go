package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"safestreet-service/models"

	"github.com/apex/log"
)

// maxLineBytes bounds a single stored record; descriptions can be long but a
// line past this is corrupt.
const maxLineBytes = 1 << 20

// Store is an append-only, line-oriented report log. Each report is one JSON
// object on its own line, UTF-8. Appends are serialized; reads scan the file
// fresh on every call.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file. The file is created on
// first append; a store that does not exist yet reads as empty history.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes the report as a single line at the end of the log.
func (s *Store) Append(report *models.HazardReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Errorf("Failed to open reports file %s: %v", s.path, err)
		return fmt.Errorf("failed to open reports file: %w", err)
	}
	defer f.Close()

	// One Write call per record, so readers never observe a partial line.
	if _, err := f.Write(data); err != nil {
		log.Errorf("Failed to append report to %s: %v", s.path, err)
		return fmt.Errorf("failed to append report: %w", err)
	}

	return nil
}

// LoadAll returns every stored report in arrival order. A missing store file
// is the valid "no history yet" state and yields an empty result.
func (s *Store) LoadAll() ([]models.HazardReport, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		log.Errorf("Failed to open reports file %s: %v", s.path, err)
		return nil, fmt.Errorf("failed to open reports file: %w", err)
	}
	defer f.Close()

	var reports []models.HazardReport
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var report models.HazardReport
		if err := json.Unmarshal([]byte(line), &report); err != nil {
			log.Errorf("Corrupt report in %s at line %d: %v", s.path, lineNo, err)
			return nil, fmt.Errorf("corrupt report at line %d: %w", lineNo, err)
		}
		reports = append(reports, report)
	}
	if err := scanner.Err(); err != nil {
		log.Errorf("Failed to read reports file %s: %v", s.path, err)
		return nil, fmt.Errorf("failed to read reports file: %w", err)
	}

	return reports, nil
}

// FindRecent returns up to max reports whose location name contains the query,
// case-insensitive, most recent first. Reports stamped in the same second keep
// their arrival order.
func (s *Store) FindRecent(query string, max int) ([]models.HazardReport, error) {
	reports, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := []models.HazardReport{}
	for _, r := range reports {
		if strings.Contains(strings.ToLower(r.LocationName), q) {
			matches = append(matches, r)
		}
	}

	// The timestamp format sorts chronologically as a string.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp > matches[j].Timestamp
	})

	if max >= 0 && len(matches) > max {
		matches = matches[:max]
	}
	return matches, nil
}
