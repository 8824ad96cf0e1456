package main

import "github.com/zx06/keytar/internal/backend"

// secretResult is the payload of get/find for a single secret
type secretResult struct {
	Service  string `json:"service" yaml:"service"`
	Account  string `json:"account,omitempty" yaml:"account,omitempty"`
	Password string `json:"password" yaml:"password"`
}

func (r secretResult) ToTableData() ([]string, []map[string]any, bool) {
	cols := []string{"service", "account", "password"}
	row := map[string]any{"service": r.Service, "account": r.Account, "password": r.Password}
	return cols, []map[string]any{row}, true
}

// credentialList is the payload of get without an account
type credentialList struct {
	Service     string           `json:"service" yaml:"service"`
	Credentials []backend.Record `json:"credentials" yaml:"credentials"`
}

func (l credentialList) ToTableData() ([]string, []map[string]any, bool) {
	rows := make([]map[string]any, 0, len(l.Credentials))
	for _, c := range l.Credentials {
		rows = append(rows, map[string]any{"account": c.Account, "password": c.Password})
	}
	return []string{"account", "password"}, rows, true
}

// changeResult is the payload of set and delete
type changeResult struct {
	Service string `json:"service" yaml:"service"`
	Account string `json:"account" yaml:"account"`
	Stored  *bool  `json:"stored,omitempty" yaml:"stored,omitempty"`
	Deleted *bool  `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}
