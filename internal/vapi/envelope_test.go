package vapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBody_DirectObject(t *testing.T) {
	p, err := ParseBody([]byte(`{"county":"Beaverhead","herd_size":250}`))
	require.NoError(t, err)
	require.Equal(t, "Beaverhead", p.String("county"))
	require.Equal(t, 250, p.Int("herd_size"))
	require.Empty(t, p.ToolCallID)
}

func TestParseBody_ToolCallEnvelope(t *testing.T) {
	body := `{
		"message": {
			"type": "tool-calls",
			"toolCalls": [
				{
					"id": "call_abc123",
					"function": {
						"name": "find_specialist",
						"arguments": {"county": "Beaverhead County"}
					}
				}
			]
		}
	}`
	p, err := ParseBody([]byte(body))
	require.NoError(t, err)
	require.Equal(t, "call_abc123", p.ToolCallID)
	require.Equal(t, "Beaverhead County", p.String("county"))
}

func TestParseBody_StringEncodedArguments(t *testing.T) {
	body := `{
		"message": {
			"toolCalls": [
				{
					"id": "call_def456",
					"function": {
						"name": "create_lead",
						"arguments": "{\"name\":\"Guy Hanson\",\"phone\":\"406-555-0199\"}"
					}
				}
			]
		}
	}`
	p, err := ParseBody([]byte(body))
	require.NoError(t, err)
	require.Equal(t, "Guy Hanson", p.String("name"))
	require.Equal(t, "406-555-0199", p.String("phone"))
}

func TestParseBody_LegacyToolCallList(t *testing.T) {
	body := `{
		"message": {
			"toolCallList": [
				{"id": "call_old", "function": {"arguments": {"zip": "59725"}}}
			]
		}
	}`
	p, err := ParseBody([]byte(body))
	require.NoError(t, err)
	require.Equal(t, "call_old", p.ToolCallID)
	require.Equal(t, "59725", p.String("zip"))
}

func TestParseBody_EmptyBody(t *testing.T) {
	p, err := ParseBody(nil)
	require.NoError(t, err)
	require.Equal(t, "", p.String("anything"))
	require.False(t, p.Has("anything"))
}

func TestParseBody_Malformed(t *testing.T) {
	_, err := ParseBody([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseBody([]byte(`{"message":{"toolCalls":[{"function":{"arguments":"not json either"}}]}}`))
	require.Error(t, err)
}

func TestFromQuery(t *testing.T) {
	p := FromQuery(map[string]string{"county": " Beaverhead ", "herd_size": "250"})
	require.Equal(t, "Beaverhead", p.String("county"))
	require.Equal(t, 250, p.Int("herd_size"))
}

func TestParams_StringFirstPresentWins(t *testing.T) {
	p, err := ParseBody([]byte(`{"phone_number":"406-555-0199"}`))
	require.NoError(t, err)
	require.Equal(t, "406-555-0199", p.String("phone", "phone_number"))
	require.Equal(t, "", p.String("missing"))
}

func TestParams_Int(t *testing.T) {
	p, err := ParseBody([]byte(`{"a": 12, "b": "34", "c": "not a number"}`))
	require.NoError(t, err)
	require.Equal(t, 12, p.Int("a"))
	require.Equal(t, 34, p.Int("b"))
	require.Equal(t, 0, p.Int("c"))
	require.Equal(t, 0, p.Int("missing"))
}

func TestParams_StringSlice(t *testing.T) {
	p, err := ParseBody([]byte(`{"arr": ["cattle", " sheep ", ""], "csv": "cattle, sheep,,horse"}`))
	require.NoError(t, err)
	require.Equal(t, []string{"cattle", "sheep"}, p.StringSlice("arr"))
	require.Equal(t, []string{"cattle", "sheep", "horse"}, p.StringSlice("csv"))
	require.Nil(t, p.StringSlice("missing"))
}
