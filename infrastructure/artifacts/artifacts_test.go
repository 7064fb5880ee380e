package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const deployed = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func TestDefaultABIHasContractSurface(t *testing.T) {
	parsed := DefaultABI()

	for _, method := range []string{"createProject", "updateProject", "deleteProject", "backProject", "payoutProject", "getProjects", "getProject", "getBackers", "stats"} {
		_, ok := parsed.Methods[method]
		require.True(t, ok, method)
	}
	require.True(t, parsed.Methods["backProject"].IsPayable())
	require.Len(t, parsed.Methods["stats"].Outputs, 3)
}

func TestLoadWithAddressFile(t *testing.T) {
	dir := t.TempDir()
	addressPath := filepath.Join(dir, "contractAddress.json")
	require.NoError(t, os.WriteFile(addressPath, []byte(`{"address": "`+deployed+`"}`), 0o600))

	loaded, err := Load("", addressPath, "")
	require.NoError(t, err)
	require.Equal(t, deployed, loaded.Address.Hex())
	require.Contains(t, loaded.ABI.Methods, "getProjects")
}

func TestLoadHardhatArtifact(t *testing.T) {
	dir := t.TempDir()
	abiPath := filepath.Join(dir, "Genesis.json")
	artifact := `{"contractName": "Genesis", "abi": [{"inputs": [], "name": "stats", "outputs": [{"type": "uint256", "name": "totalProjects"}], "stateMutability": "view", "type": "function"}]}`
	require.NoError(t, os.WriteFile(abiPath, []byte(artifact), 0o600))

	loaded, err := Load(deployed, "", abiPath)
	require.NoError(t, err)
	require.Len(t, loaded.ABI.Methods, 1)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("", "", "")
	require.ErrorIs(t, err, ErrorNoAddress)

	_, err = Load("0x1234", "", "")
	require.ErrorIs(t, err, ErrorInvalidAddress)

	_, err = ParseABI([]byte(`{"contractName": "Genesis"}`))
	require.Error(t, err)
}
