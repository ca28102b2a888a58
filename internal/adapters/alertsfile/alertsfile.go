// Package alertsfile reads the user's alert rules from a JSON or YAML file.
package alertsfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"glacier_alert/internal/domain"
)

type rawHotel struct {
	HotelCode string   `json:"hotel_code" yaml:"hotel_code"`
	RoomCodes []string `json:"room_codes" yaml:"room_codes"`
}

type rawRule struct {
	Dates  []string   `json:"dates" yaml:"dates"`
	Hotels []rawHotel `json:"hotels" yaml:"hotels"`
}

// Load reads and validates the alerts file at path. Every date must fall
// inside w.
func Load(path string, w domain.Window) (domain.AlertSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.AlertSpec{}, fmt.Errorf("%w: read alerts file: %w", domain.ErrInvalidConfig, err)
	}
	return Parse(b, filepath.Ext(path), w)
}

// Parse decodes b as YAML when ext is .yaml or .yml and as JSON otherwise.
func Parse(b []byte, ext string, w domain.Window) (domain.AlertSpec, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return domain.AlertSpec{}, fmt.Errorf("%w: alerts file is empty", domain.ErrInvalidConfig)
	}
	var raw []rawRule
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return domain.AlertSpec{}, fmt.Errorf("%w: decode yaml alerts: %w", domain.ErrInvalidConfig, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return domain.AlertSpec{}, fmt.Errorf("%w: decode json alerts: %w", domain.ErrInvalidConfig, err)
		}
	}
	if len(raw) == 0 {
		return domain.AlertSpec{}, fmt.Errorf("%w: alerts file has no rules", domain.ErrInvalidConfig)
	}

	spec := domain.AlertSpec{Rules: make([]domain.AlertRule, 0, len(raw))}
	for i, r := range raw {
		rule, err := validate(r, w)
		if err != nil {
			return domain.AlertSpec{}, fmt.Errorf("%w: rule %d: %w", domain.ErrInvalidConfig, i, err)
		}
		spec.Rules = append(spec.Rules, rule)
	}
	return spec, nil
}

func validate(r rawRule, w domain.Window) (domain.AlertRule, error) {
	var rule domain.AlertRule
	for _, s := range r.Dates {
		d, err := domain.ParseDate(s)
		if err != nil {
			return rule, err
		}
		if !w.Contains(d) {
			return rule, fmt.Errorf("date %s outside %s..%s", d, w.Start, w.End)
		}
		rule.Dates = append(rule.Dates, d)
	}
	if len(r.Hotels) == 0 {
		return rule, fmt.Errorf("no hotels listed")
	}
	for _, h := range r.Hotels {
		code := strings.TrimSpace(h.HotelCode)
		if code == "" {
			return rule, fmt.Errorf("blank hotel_code")
		}
		hr := domain.HotelRooms{HotelCode: code}
		for _, rc := range h.RoomCodes {
			rc = strings.TrimSpace(rc)
			if rc == "" {
				return rule, fmt.Errorf("blank room code for hotel %s", code)
			}
			hr.RoomCodes = append(hr.RoomCodes, rc)
		}
		rule.Hotels = append(rule.Hotels, hr)
	}
	return rule, nil
}
