package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var serverFlags = []string{"-a", "-g", "-d", "-t", "-o"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps server flags, drops config file",
			args:    []string{"-c", "assistant.json", "-a", ":8000", "-t", "30"},
			allowed: serverFlags,
			want:    []string{"-a", ":8000", "-t", "30"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=postgres://u:p@db/assistant", "-x", "sha256"},
			allowed: serverFlags,
			want:    []string{"-d=postgres://u:p@db/assistant"},
		},
		{
			name:    "value containing equals stays whole",
			args:    []string{"-d", "host=db user=u", "-g", ":50051"},
			allowed: serverFlags,
			want:    []string{"-d", "host=db user=u", "-g", ":50051"},
		},
		{
			name:    "comma separated origins",
			args:    []string{"-o", "http://localhost:3000,https://app.example.com"},
			allowed: serverFlags,
			want:    []string{"-o", "http://localhost:3000,https://app.example.com"},
		},
		{
			name:    "dangling flag at the end",
			args:    []string{"-a", ":8000", "-t"},
			allowed: serverFlags,
			want:    []string{"-a", ":8000", "-t"},
		},
		{
			name:    "next token is another flag",
			args:    []string{"-a", "-t", "15"},
			allowed: serverFlags,
			want:    []string{"-a", "-t", "15"},
		},
		{
			name:    "double dash only when allowed",
			args:    []string{"--config=a.json", "--a", ":9000"},
			allowed: serverFlags,
			want:    []string{},
		},
		{
			name:    "nothing to keep",
			args:    nil,
			allowed: serverFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "/etc/assistant.json"}, want: "/etc/assistant.json"},
		{name: "long", args: []string{"-config", "/etc/assistant.json"}, want: "/etc/assistant.json"},
		{name: "long with equals", args: []string{"-a", ":8000", "-config=/etc/assistant.json"}, want: "/etc/assistant.json"},
		{name: "double dash with equals", args: []string{"--config=/srv/assistant.json", "-t", "30"}, want: "/srv/assistant.json"},
		{name: "double dash separate value", args: []string{"--config", "/srv/assistant.json"}, want: "/srv/assistant.json"},
		{name: "last wins", args: []string{"-c", "one.json", "--config", "two.json"}, want: "two.json"},
		{name: "server flags only", args: []string{"-a", ":8000", "-d", "postgres://db"}, want: ""},
		{name: "no args", args: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFileFlag(tt.args))
		})
	}
}

func TestJsonConfigFlags_ReadsProcessArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"assistant-server", "-a", ":8000", "--config=/srv/assistant.json"}
	assert.Equal(t, "/srv/assistant.json", JsonConfigFlags())
}
