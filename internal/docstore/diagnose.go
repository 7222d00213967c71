package docstore

import (
	"context"

	"github.com/odnamestaj/catalog/config"
)

const maxDiagnosedCollections = 10

// Diagnosis describes store connectivity for the /test endpoint.
type Diagnosis struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseType     string   `json:"database_type"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	Connected        string   `json:"connected_database,omitempty"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Diagnose never fails; problems are reported inline.
func (c *Client) Diagnose(ctx context.Context, cfg config.DatabaseConfig) Diagnosis {
	d := Diagnosis{
		Backend:          "Running",
		Database:         "Not Available",
		DatabaseType:     cfg.Type,
		DatabaseURL:      setOrNot(cfg.URL),
		DatabaseName:     setOrNot(cfg.Name),
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	if !c.Available() {
		if cfg.Configured() {
			d.Database = "Configured but not initialized"
		}
		return d
	}

	d.Database = "Available"
	d.ConnectionStatus = "Connected"
	d.DatabaseType = c.Type()
	d.Connected = c.DatabaseName()
	names, err := c.backend.ListCollectionNames(ctx)
	if err != nil {
		d.Database = "Connected but Error: " + truncate(err.Error(), 50)
		return d
	}
	if len(names) > maxDiagnosedCollections {
		names = names[:maxDiagnosedCollections]
	}
	if names != nil {
		d.Collections = names
	}
	d.Database = "Connected & Working"
	return d
}

func setOrNot(v string) string {
	if v != "" {
		return "Set"
	}
	return "Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
