package config

import (
	"strings"
	"testing"
)

func TestParseICEServersJSON(t *testing.T) {
	raw := `[
		{"urls": "stun:stun.example.com:3478"},
		{"urls": ["turn:turn.example.com:3478", "turns:turn.example.com:5349"], "username": "user", "credential": "pass"}
	]`

	servers, err := ParseICEServersJSON(raw)
	if err != nil {
		t.Fatalf("ParseICEServersJSON() = %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("parsed %d servers, want 2", len(servers))
	}
	if servers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("first server urls = %v", servers[0].URLs)
	}
	if servers[1].Username != "user" {
		t.Fatalf("turn username = %q", servers[1].Username)
	}
	if cred, ok := servers[1].Credential.(string); !ok || cred != "pass" {
		t.Fatalf("turn credential = %v", servers[1].Credential)
	}
}

func TestParseICEServersJSONErrors(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"invalid json", `{`, "unexpected end"},
		{"missing urls", `[{"username": "u"}]`, "missing urls"},
		{"bad scheme", `[{"urls": "http://example.com"}]`, "unsupported url scheme"},
		{"turn without username", `[{"urls": "turn:t.example.com", "credential": "p"}]`, "require username"},
		{"turn without credential", `[{"urls": "turn:t.example.com", "username": "u"}]`, "require credential"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseICEServersJSON(tc.raw); err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ParseICEServersJSON() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseICEServersConvenienceEnv(t *testing.T) {
	servers, err := parseICEServers("", "stun:a.example.com, stun:b.example.com", "turn:t.example.com", "user", "pass")
	if err != nil {
		t.Fatalf("parseICEServers() = %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("parsed %d servers, want 2", len(servers))
	}
	if len(servers[0].URLs) != 2 {
		t.Fatalf("stun urls = %v, want both entries", servers[0].URLs)
	}
	if servers[1].Username != "user" {
		t.Fatalf("turn username = %q", servers[1].Username)
	}
}

func TestParseICEServersTurnRequiresCredentials(t *testing.T) {
	if _, err := parseICEServers("", "", "turn:t.example.com", "user", ""); err == nil {
		t.Fatal("turn urls without credential must fail")
	}
	if _, err := parseICEServers("", "", "turn:t.example.com", "", "pass"); err == nil {
		t.Fatal("turn urls without username must fail")
	}
}

func TestParseICEServersJSONTakesPrecedence(t *testing.T) {
	servers, err := parseICEServers(`[{"urls": "stun:json.example.com"}]`, "stun:env.example.com", "", "", "")
	if err != nil {
		t.Fatalf("parseICEServers() = %v", err)
	}
	if len(servers) != 1 || servers[0].URLs[0] != "stun:json.example.com" {
		t.Fatalf("JSON config did not take precedence: %v", servers)
	}
}

func TestParseICEServersEmpty(t *testing.T) {
	servers, err := parseICEServers("", "", "", "", "")
	if err != nil {
		t.Fatalf("parseICEServers() = %v", err)
	}
	if len(servers) != 0 {
		t.Fatalf("parsed %d servers from empty config, want 0", len(servers))
	}
}
