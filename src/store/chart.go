package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/username/goldbooks/backend/src/models"
)

// ChartStore holds the chart of accounts and the role map, each a JSON file
// owned by this service. The role map lives alongside the chart so role
// assignments version together with the accounts they point at.
type ChartStore struct {
	chartPath   string
	roleMapPath string
	mu          sync.Mutex
}

func NewChartStore(chartPath, roleMapPath string) *ChartStore {
	return &ChartStore{chartPath: chartPath, roleMapPath: roleMapPath}
}

// Load reads the chart and role map. A missing role map file is an empty
// map (keyword fallback applies); a missing chart is an error, since no
// report can be produced without accounts. The returned hash covers both
// files and keys the report cache together with the receipt-log hash.
func (s *ChartStore) Load() ([]models.Account, models.RoleMap, string, error) {
	chartData, err := os.ReadFile(s.chartPath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("reading account chart %s: %w", s.chartPath, err)
	}
	var chart []models.Account
	if err := json.Unmarshal(chartData, &chart); err != nil {
		return nil, nil, "", fmt.Errorf("parsing account chart %s: %w", s.chartPath, err)
	}

	roles := models.RoleMap{}
	roleData, err := os.ReadFile(s.roleMapPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, "", fmt.Errorf("reading role map %s: %w", s.roleMapPath, err)
	}
	if err == nil {
		if err := json.Unmarshal(roleData, &roles); err != nil {
			return nil, nil, "", fmt.Errorf("parsing role map %s: %w", s.roleMapPath, err)
		}
	}

	hash := sha256.Sum256(append(chartData, roleData...))
	return chart, roles, hex.EncodeToString(hash[:]), nil
}

// SaveChart replaces the chart of accounts.
func (s *ChartStore) SaveChart(chart []models.Account) error {
	return s.writeJSON(s.chartPath, chart)
}

// SaveRoles replaces the role map.
func (s *ChartStore) SaveRoles(roles models.RoleMap) error {
	return s.writeJSON(s.roleMapPath, roles)
}

func (s *ChartStore) writeJSON(path string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dir for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
