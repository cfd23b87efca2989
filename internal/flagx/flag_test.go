package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "localhost:8080", "-l", "debug"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:8080"},
		},
		{
			name:    "inline value",
			args:    []string{"-s=http://api", "-x", "1"},
			allowed: []string{"-s"},
			want:    []string{"-s=http://api"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional", "a=b"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-f"},
			allowed: []string{"-f"},
			want:    []string{"-f"},
		},
		{
			name:    "dash token is not a value",
			args:    []string{"-c", "-config=alt.json"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "-config=alt.json"},
		},
		{
			name:    "inline value may start with a dash",
			args:    []string{"-r=-1"},
			allowed: []string{"-r"},
			want:    []string{"-r=-1"},
		},
		{
			name:    "repeats kept in order",
			args:    []string{"-k", "one", "-a", ":1", "-k", "two"},
			allowed: []string{"-k", "-a"},
			want:    []string{"-k", "one", "-a", ":1", "-k", "two"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/apodkeeper.json"}, "/etc/apodkeeper.json"},
		{"long", []string{"-a", ":8080", "-config", "srv.json"}, "srv.json"},
		{"double dash inline", []string{"--config=cli.json"}, "cli.json"},
		{"last wins", []string{"-c", "1.json", "-config", "2.json"}, "2.json"},
		{"absent", []string{"-a", ":8080", "-l", "debug"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"apodkeeper", "-s", "http://localhost:8080", "-c", "client.json"}
	assert.Equal(t, "client.json", JsonConfigFlags())
}
