package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/dealmax/internal/domain"
	"gopkg.in/yaml.v3"
)

// requestFile es lo que el desk prepara para una sesión: la aprobación del
// cliente para buscar deals, y/o las aprobaciones a comparar.
type requestFile struct {
	Deal      *domain.FindDealsRequest `json:"deal,omitempty" yaml:"deal,omitempty"`
	VehicleID string                   `json:"vehicleId,omitempty" yaml:"vehicle_id,omitempty"`
	Approvals []domain.ApprovalSpec    `json:"approvals,omitempty" yaml:"approvals,omitempty"`
	Trade     *domain.TradeInfo        `json:"trade,omitempty" yaml:"trade,omitempty"`
	Term      int                      `json:"term,omitempty" yaml:"term,omitempty"`
}

func loadRequest(path string) (requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return requestFile{}, fmt.Errorf("loadRequest: read %q: %w", path, err)
	}

	var req requestFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &req)
	} else {
		err = yaml.Unmarshal(data, &req)
	}
	if err != nil {
		return requestFile{}, fmt.Errorf("loadRequest: decode %q: %w", path, err)
	}

	if req.Deal == nil && len(req.Approvals) == 0 {
		return requestFile{}, fmt.Errorf("loadRequest: %q has neither deal nor approvals", path)
	}
	return req, nil
}
