package cmd

import (
	"strings"
	"testing"

	"github.com/lesplan/untis-tabulator/internal"
)

func TestConfigCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "print defaults",
			args: []string{"config"},
			want: []string{"server: arche.webuntis.com", "school: AP-Hogeschool-Antwerpen", "merge_policy: any"},
		},
		{
			name: "set values",
			args: []string{"config", "--set", "school=Other", "-s", "concurrency=2"},
			want: []string{"school: Other", "concurrency: 2"},
		},
		{name: "unknown key", args: []string{"config", "--set", "password=x"}, wantErr: true},
		{name: "missing value", args: []string{"config", "--set", "school"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("config error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("config output should contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfigSetPersists(t *testing.T) {
	if _, err := executeCommand(t, "config", "--set", "timezone=UTC"); err != nil {
		t.Fatalf("config error = %v", err)
	}
	// HOME still points at the directory executeCommand created
	cfg, err := internal.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Timezone)
	}
}
