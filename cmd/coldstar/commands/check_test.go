package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsyrem/coldstar/internal/signer"
)

func TestCheckCommand(t *testing.T) {
	out, err := runCommand(t, NewCheckCommand(testConfig()), nil)
	require.NoError(t, err)

	var resp response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.Success)

	var report struct {
		Version        string `json:"version"`
		MlockSupported *bool  `json:"mlock_supported"`
		Platform       string `json:"platform"`
		Arch           string `json:"arch"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, signer.Version, report.Version)
	assert.NotNil(t, report.MlockSupported)
	assert.NotEmpty(t, report.Platform)
	assert.NotEmpty(t, report.Arch)
}
