package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "texloop",
		Password: "secret",
		Database: "textile_engine",
		SSLMode:  "disable",
	}

	got := cfg.ConnectionString()
	assert.Equal(t, "host=localhost port=5432 user=texloop password=secret dbname=textile_engine sslmode=disable", got)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scraper ScraperConfig
		wantErr bool
	}{
		{
			name:    "valid",
			scraper: ScraperConfig{FetchLimit: 50, DescriptionMaxLen: 500, UnknownContextCap: 10},
			wantErr: false,
		},
		{
			name:    "zero fetch limit",
			scraper: ScraperConfig{FetchLimit: 0, DescriptionMaxLen: 500},
			wantErr: true,
		},
		{
			name:    "negative description bound",
			scraper: ScraperConfig{FetchLimit: 50, DescriptionMaxLen: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Scraper: tt.scraper}
			err := cfg.validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
