package postman

import (
	"testing"

	"github.com/sadopc/restman/internal/core/model"
)

const sampleEnvironment = `{
  "id": "abc-123",
  "name": "Staging",
  "values": [
    {"key": "host", "value": "staging.example.com", "enabled": true, "type": "default"},
    {"key": "apiKey", "value": "k-123", "enabled": true, "type": "secret"},
    {"key": "legacy", "value": "old", "enabled": false, "type": "default"}
  ],
  "_postman_variable_scope": "environment"
}`

func TestImportEnvironment(t *testing.T) {
	env, err := ImportEnvironment([]byte(sampleEnvironment))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if env.Name != "Staging" {
		t.Errorf("name = %q", env.Name)
	}
	if env.ID == "" {
		t.Error("import should assign a local id")
	}
	if len(env.Variables) != 3 {
		t.Fatalf("variables = %d", len(env.Variables))
	}
	if !env.Variables[1].IsSecret {
		t.Error("secret-typed value not marked secret")
	}
	if env.Variables[2].Enabled {
		t.Error("disabled value imported as enabled")
	}
}

func TestImportEnvironmentErrors(t *testing.T) {
	if _, err := ImportEnvironment([]byte("nope")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := ImportEnvironment([]byte(`{"values":[]}`)); err == nil {
		t.Error("expected missing name error")
	}
}

func TestEnvironmentRoundTrip(t *testing.T) {
	env := model.NewEnvironment("dev")
	env.Variables = []model.Variable{
		{KVPair: model.KVPair{Key: "host", Value: "dev.example.com", Enabled: true}},
		{KVPair: model.KVPair{Key: "token", Value: "t1", Enabled: true}, IsSecret: true},
	}

	data, err := ExportEnvironment(env)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	back, err := ImportEnvironment(data)
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if back.Name != "dev" || len(back.Variables) != 2 {
		t.Fatalf("round trip = %+v", back)
	}
	if !back.Variables[1].IsSecret {
		t.Error("secret flag lost in round trip")
	}
	if back.Variables[0].Value != "dev.example.com" {
		t.Errorf("value = %q", back.Variables[0].Value)
	}
}
