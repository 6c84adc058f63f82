package city_test

import (
	"os"
	"path/filepath"
	"testing"

	"eventbr/src-server/city"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		input string
		name  string
		uf    string
	}{
		{"São Paulo (SP)", "São Paulo", "SP"},
		{"Brasília", "Brasília", ""},
		{"  Rio de Janeiro (RJ)  ", "Rio de Janeiro", "RJ"},
		// only the last " (" delimits the state code
		{"Embu (Embu das Artes) (SP)", "Embu (Embu das Artes)", "SP"},
		{"", "", ""},
	}
	for _, tc := range testCases {
		entry := city.Split(tc.input)
		assert.Equal(t, tc.name, entry.Name, "input %q", tc.input)
		assert.Equal(t, tc.uf, entry.UF, "input %q", tc.input)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "São Paulo (SP)", city.Entry{Name: "São Paulo", UF: "SP"}.Display())
	assert.Equal(t, "Brasília", city.Entry{Name: "Brasília"}.Display())
}

func TestDisplaySplitRoundTrip(t *testing.T) {
	entry := city.Entry{Name: "João Pessoa", UF: "PB"}
	assert.Equal(t, entry, city.Split(entry.Display()))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cidades.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"data": [
			{"Nome": "São Paulo", "Uf": "SP"},
			{"Nome": "Aracaju", "Uf": "SE"},
			{"Nome": "Belém", "Uf": "PA"}
		]
	}`), 0o644))

	list := city.Load(path)
	assert.Equal(t, 3, list.Len())
	assert.Equal(t, []string{
		"Aracaju (SE)",
		"Belém (PA)",
		"São Paulo (SP)",
	}, list.Displays())
}

func TestLoadMissingFile(t *testing.T) {
	list := city.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 0, list.Len())
	assert.Empty(t, list.Displays())
}

func TestLoadGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cidades.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	assert.Equal(t, 0, city.Load(path).Len())
}
