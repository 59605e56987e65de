package postman

import (
	"encoding/json"
	"fmt"

	"github.com/sadopc/restman/internal/core/model"
)

type pmEnvironment struct {
	ID     string       `json:"id,omitempty"`
	Name   string       `json:"name"`
	Values []pmEnvValue `json:"values"`
	Scope  string       `json:"_postman_variable_scope,omitempty"`
}

type pmEnvValue struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty"`
}

// ImportEnvironment parses Postman environment JSON. Secret-typed values are
// marked as secrets.
func ImportEnvironment(data []byte) (*model.Environment, error) {
	var pe pmEnvironment
	if err := json.Unmarshal(data, &pe); err != nil {
		return nil, fmt.Errorf("parsing postman environment: %w", err)
	}
	if pe.Name == "" {
		return nil, fmt.Errorf("postman environment missing name")
	}

	env := model.NewEnvironment(pe.Name)
	for _, v := range pe.Values {
		env.Variables = append(env.Variables, model.Variable{
			KVPair:   model.KVPair{Key: v.Key, Value: v.Value, Enabled: v.Enabled},
			IsSecret: v.Type == "secret",
			Type:     v.Type,
		})
	}
	return env, nil
}

// ExportEnvironment renders an environment as Postman environment JSON.
func ExportEnvironment(env *model.Environment) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("environment is nil")
	}
	pe := pmEnvironment{
		ID:    env.ID,
		Name:  env.Name,
		Scope: "environment",
	}
	for _, v := range env.Variables {
		value := pmEnvValue{
			Key:     v.Key,
			Value:   v.Value,
			Enabled: v.Enabled,
			Type:    v.Type,
		}
		if v.IsSecret {
			value.Type = "secret"
		} else if value.Type == "" {
			value.Type = "default"
		}
		pe.Values = append(pe.Values, value)
	}
	if pe.Values == nil {
		pe.Values = []pmEnvValue{}
	}
	return json.MarshalIndent(pe, "", "  ")
}
